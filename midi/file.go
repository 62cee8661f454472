package midi

// This file contains the chunk-level parsing: the MThd header and the
// MTrk event loops.

import (
	"errors"
)

// The SMF default of 500000 microseconds per quarter note (120 BPM), in
// effect on every track before any tempo event.
const DefaultTempo = 500000

// Sentinel tempo value for files without a single nominal tempo, either
// because multiple tempo-governing tracks exist or because no tempo event
// was seen.
const TempoVariable = 0

// Holds one track chunk's decoded events, in file order. The last event
// is always an EndOfTrackEvent; nothing follows it.
type RawTrack struct {
	Events []Event
}

// Holds the decoded structure of a complete .mid file, before any note
// assembly. Format 1 files designate track 0 as the tempo/meta track
// shared by all others.
type MIDIFile struct {
	// 0, 1 or 2, from the header chunk.
	Format uint16
	// Ticks per quarter note, from the header chunk.
	PPQN uint16
	// The single representative tempo in microseconds per quarter note,
	// or TempoVariable. Filled in by Parse once the tempo map is known.
	Tempo  uint32
	Tracks []*RawTrack
}

// ParseMIDIFile decodes the chunk structure of an SMF byte stream into
// raw per-track event lists. The buffer must not be modified while any
// returned event that aliases it is in use.
func ParseMIDIFile(data []byte) (*MIDIFile, error) {
	c := NewCursor(data)
	// The header tag and chunk length are read and ignored; the fields
	// behind them are what matters, and the real track boundary is the
	// end-of-track event rather than any chunk length.
	if _, e := c.Read(8); e != nil {
		return nil, e
	}
	format, e := c.ReadUint16()
	if e != nil {
		return nil, e
	}
	trackCount, e := c.ReadUint16()
	if e != nil {
		return nil, e
	}
	ppqn, e := c.ReadUint16()
	if e != nil {
		return nil, e
	}
	toReturn := &MIDIFile{
		Format: format,
		PPQN:   ppqn,
		Tempo:  TempoVariable,
		Tracks: make([]*RawTrack, trackCount),
	}
	for i := range toReturn.Tracks {
		toReturn.Tracks[i], e = parseTrack(c, i)
		if e != nil {
			return nil, e
		}
	}
	return toReturn, nil
}

// Parses one MTrk chunk: the 8 tag and length bytes, then events under a
// persistent running status until the end-of-track event (inclusive).
func parseTrack(c *Cursor, index int) (*RawTrack, error) {
	if _, e := c.Read(8); e != nil {
		return nil, &TruncatedFileError{TrackIndex: index, Err: e}
	}
	var events []Event
	runningStatus := byte(0)
	for {
		event, updatedStatus, e := decodeEvent(c, runningStatus)
		if e != nil {
			var eod *UnexpectedEndOfDataError
			if errors.As(e, &eod) {
				return nil, &TruncatedFileError{TrackIndex: index, Err: e}
			}
			return nil, e
		}
		runningStatus = updatedStatus
		events = append(events, event)
		if _, done := event.(*EndOfTrackEvent); done {
			return &RawTrack{Events: events}, nil
		}
	}
}
