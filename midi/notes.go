package midi

// This file contains the note assembly pass: pairing note-on and note-off
// events into finalized notes with seconds-based timing and per-track
// statistics.

import (
	"fmt"
	"math"
	"os"

	"github.com/sirupsen/logrus"
)

// A Note is one finalized key press with wall-clock timing. Immutable
// once emitted.
type Note struct {
	// 0-15.
	Channel uint8
	// 0-127.
	NoteNumber uint8
	// Press and release times in seconds. TimeOff is never smaller than
	// TimeOn, but zero-length notes can occur in real files.
	TimeOn  float64
	TimeOff float64
	// Velocity of the initial press, normalized to [0, 1].
	Velocity float64
}

// A Track is the assembled, consumer-facing view of one MIDI track: its
// notes in completion order plus summary statistics. Tracks that play no
// notes never appear in a parse's output.
type Track struct {
	// The last track name meta-event seen while assembling, or "".
	Name string
	// Dense output index, counting only tracks that made it into the
	// output.
	Index int
	// Lowest and highest note numbers pressed on the track.
	MinNote uint8
	MaxNote uint8
	// Lowest and highest press velocities, on the raw 0-127 scale.
	MinVelocity uint8
	MaxVelocity uint8
	// Notes ordered by the event that completed them, which is their
	// note-off order, not necessarily their note-on order.
	Notes []Note
	// Distinct note numbers, in order of first use.
	NotesUsed []uint8
}

// A Score is the complete output surface of a parse: the header summary
// plus the assembled tracks. This is all the animation layer consumes.
type Score struct {
	Format uint16
	PPQN   uint16
	// Microseconds per quarter note, or TempoVariable when no single
	// tempo governs the whole file.
	Tempo  uint32
	Tracks []*Track
}

// Parse decodes a complete .mid byte stream into per-track, seconds-timed
// notes. A parse either succeeds completely or fails with one of the
// typed errors in this package; no partial result is returned. All state
// is local to the call, so independent buffers may be parsed concurrently.
func Parse(data []byte) (*Score, error) {
	midiFile, e := ParseMIDIFile(data)
	if e != nil {
		return nil, e
	}
	tempoMap := NewTempoMap(midiFile)
	midiFile.Tempo = tempoMap.NominalTempo()
	return &Score{
		Format: midiFile.Format,
		PPQN:   midiFile.PPQN,
		Tempo:  midiFile.Tempo,
		Tracks: AssembleTracks(midiFile, tempoMap),
	}, nil
}

// ReadFile parses the .mid file at the given path.
func ReadFile(path string) (*Score, error) {
	data, e := os.ReadFile(path)
	if e != nil {
		return nil, fmt.Errorf("Failed reading %s: %w", path, e)
	}
	return Parse(data)
}

// The pending-note table key: stacked presses are counted per channel and
// note number.
type noteKey struct {
	channel uint8
	note    uint8
}

// Tracks one (channel, note) press that hasn't been fully released.
// stacked counts overlapping presses of the same key; only the first
// press's time and velocity survive into the finalized Note.
type noteOnRecord struct {
	timeInTicks   uint64
	timeInSeconds float64
	velocity      float64
	stacked       int
}

// Per-track assembly state. This replaces the process-global "current
// file" context of earlier incarnations of this module: everything here
// is created fresh per track, so parses never leak into each other.
type trackState struct {
	timeInTicks   uint64
	timeInSeconds float64
	pending       map[noteKey]*noteOnRecord
}

func newTrackState() *trackState {
	return &trackState{pending: make(map[noteKey]*noteOnRecord)}
}

func (s *trackState) advance(trackIndex int, m *TempoMap, delta uint32) {
	s.timeInTicks += uint64(delta)
	s.timeInSeconds = m.TimeInTicksToSeconds(trackIndex, s.timeInTicks)
}

func (s *trackState) recordNoteOn(event *NoteOnEvent) {
	key := noteKey{event.Channel, event.Note}
	if record, ok := s.pending[key]; ok {
		logrus.Warnf("Note %s double pressed on channel %d",
			NoteName(event.Note), event.Channel)
		record.stacked++
		return
	}
	s.pending[key] = &noteOnRecord{
		timeInTicks:   s.timeInTicks,
		timeInSeconds: s.timeInSeconds,
		velocity:      float64(event.Velocity) / 127.0,
		stacked:       1,
	}
}

// Returns the matching press record when this release fully closes the
// note, or nil when presses remain stacked or no press was pending at
// all. Orphan releases are dropped rather than treated as errors.
func (s *trackState) releaseNote(event *NoteOffEvent) *noteOnRecord {
	key := noteKey{event.Channel, event.Note}
	record, ok := s.pending[key]
	if !ok {
		logrus.Warnf("Note off for unpressed note %s on channel %d",
			NoteName(event.Note), event.Channel)
		return nil
	}
	if record.stacked > 1 {
		record.stacked--
		return nil
	}
	delete(s.pending, key)
	return record
}

// Accumulates per-track statistics. Fed from note-on events only,
// regardless of whether a matching note-off ever arrives.
type trackStats struct {
	minNote     int
	maxNote     int
	minVelocity int
	maxVelocity int
	notesUsed   []uint8
	seen        [128]bool
}

func newTrackStats() *trackStats {
	return &trackStats{minNote: 128, minVelocity: 127}
}

func (s *trackStats) addNoteOn(note, velocity uint8) {
	if int(note) < s.minNote {
		s.minNote = int(note)
	}
	if int(note) > s.maxNote {
		s.maxNote = int(note)
	}
	if int(velocity) < s.minVelocity {
		s.minVelocity = int(velocity)
	}
	if int(velocity) > s.maxVelocity {
		s.maxVelocity = int(velocity)
	}
	if !s.seen[note] {
		s.seen[note] = true
		s.notesUsed = append(s.notesUsed, note)
	}
}

func (s *trackStats) apply(t *Track) {
	if len(s.notesUsed) == 0 {
		return
	}
	t.MinNote = uint8(s.minNote)
	t.MaxNote = uint8(s.maxNote)
	t.MinVelocity = uint8(s.minVelocity)
	t.MaxVelocity = uint8(s.maxVelocity)
	t.NotesUsed = s.notesUsed
}

// AssembleTracks walks each raw track's events and pairs note-on and
// note-off events into notes. Tracks that end up with no notes are
// dropped and the survivors renumbered densely from 0 in their original
// relative order. Format 0 files are split into one output track per
// channel that plays notes.
func AssembleTracks(f *MIDIFile, m *TempoMap) []*Track {
	fileTracks := f.Tracks
	if (f.Format == 1) && (len(fileTracks) > 0) {
		// Track 0 is the shared tempo/meta track; it contributes timing,
		// not notes.
		fileTracks = fileTracks[1:]
	}
	var assembled []*Track
	for trackIndex, raw := range fileTracks {
		track := assembleTrack(raw, trackIndex, m)
		if len(track.Notes) == 0 {
			continue
		}
		track.Index = len(assembled)
		assembled = append(assembled, track)
	}
	if f.Format == 0 {
		return splitByChannel(assembled)
	}
	return assembled
}

func assembleTrack(raw *RawTrack, trackIndex int, m *TempoMap) *Track {
	state := newTrackState()
	stats := newTrackStats()
	track := &Track{}
	for _, event := range raw.Events {
		state.advance(trackIndex, m, event.Delta())
		switch e := event.(type) {
		case *TrackNameEvent:
			track.Name = e.Name
		case *NoteOnEvent:
			state.recordNoteOn(e)
			stats.addNoteOn(e.Note, e.Velocity)
		case *NoteOffEvent:
			record := state.releaseNote(e)
			if record == nil {
				continue
			}
			track.Notes = append(track.Notes, Note{
				Channel:    e.Channel,
				NoteNumber: e.Note,
				TimeOn:     record.timeInSeconds,
				TimeOff:    state.timeInSeconds,
				Velocity:   record.velocity,
			})
		}
	}
	for key := range state.pending {
		logrus.Warnf("Missing note off for note %s on channel %d; "+
			"dropping it", NoteName(key.note), key.channel)
	}
	stats.apply(track)
	return track
}

// Converts a normalized velocity back to the raw 0-127 scale used by the
// per-track statistics.
func rawVelocity(v float64) uint8 {
	return uint8(math.Round(v * 127.0))
}

// A format 0 file stores every channel interleaved in its single track.
// Re-derive one output track per channel with at least one note, with
// statistics recomputed from that channel's subset.
func splitByChannel(tracks []*Track) []*Track {
	if len(tracks) == 0 {
		return tracks
	}
	source := tracks[0]
	var split []*Track
	for channel := 0; channel < 16; channel++ {
		stats := newTrackStats()
		var notes []Note
		for _, note := range source.Notes {
			if int(note.Channel) != channel {
				continue
			}
			notes = append(notes, note)
			stats.addNoteOn(note.NoteNumber, rawVelocity(note.Velocity))
		}
		if len(notes) == 0 {
			continue
		}
		track := &Track{
			Name:  fmt.Sprintf("%s-ch%d", source.Name, channel),
			Index: len(split),
			Notes: notes,
		}
		stats.apply(track)
		split = append(split, track)
	}
	return split
}
