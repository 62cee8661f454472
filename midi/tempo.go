package midi

// Pins the tempo in effect from a given tick position onward, with the
// equivalent wall-clock position precomputed from the records before it.
type TempoEventRecord struct {
	TimeInTicks   uint64
	TimeInSeconds float64
	// Microseconds per quarter note.
	Tempo uint32
}

// A TempoMap converts tick positions into seconds for each tempo-governing
// track of a file. Format 1 files have a single governing track (track 0,
// shared by all others); formats 0 and 2 give every track its own tempo
// record list.
type TempoMap struct {
	ppqn   uint16
	format uint16
	// One ordered record list per governing track, ascending by tick.
	TempoTracks [][]TempoEventRecord
}

// NewTempoMap scans the file's tempo-governing tracks and builds their
// tempo record lists.
func NewTempoMap(f *MIDIFile) *TempoMap {
	toReturn := &TempoMap{ppqn: f.PPQN, format: f.Format}
	tracks := f.Tracks
	if (f.Format == 1) && (len(tracks) > 1) {
		tracks = tracks[:1]
	}
	toReturn.TempoTracks = make([][]TempoEventRecord, len(tracks))
	for trackIndex, track := range tracks {
		timeInTicks := uint64(0)
		for _, event := range track.Events {
			timeInTicks += uint64(event.Delta())
			tempoEvent, ok := event.(*TempoEvent)
			if !ok {
				continue
			}
			// The seconds position is derived from the records appended so
			// far, so the previous tempo governs the span up to this tick.
			timeInSeconds := toReturn.TimeInTicksToSeconds(trackIndex,
				timeInTicks)
			toReturn.TempoTracks[trackIndex] = append(
				toReturn.TempoTracks[trackIndex], TempoEventRecord{
					TimeInTicks:   timeInTicks,
					TimeInSeconds: timeInSeconds,
					Tempo:         tempoEvent.Tempo,
				})
		}
	}
	return toReturn
}

// TimeInTicksToSeconds converts an arbitrary tick position on the given
// track into seconds, using the latest tempo record at or before the
// position. Falls back to the 120 BPM default when no record applies yet.
func (m *TempoMap) TimeInTicksToSeconds(trackIndex int,
	timeInTicks uint64) float64 {
	if m.format == 1 {
		trackIndex = 0
	}
	record := TempoEventRecord{Tempo: DefaultTempo}
	if (trackIndex >= 0) && (trackIndex < len(m.TempoTracks)) {
		records := m.TempoTracks[trackIndex]
		for i := len(records) - 1; i >= 0; i-- {
			if records[i].TimeInTicks <= timeInTicks {
				record = records[i]
				break
			}
		}
	}
	secondsPerTick := float64(record.Tempo) / float64(m.ppqn) / 1e6
	elapsed := float64(timeInTicks-record.TimeInTicks) * secondsPerTick
	return record.TimeInSeconds + elapsed
}

// NominalTempo returns the file's single representative tempo in
// microseconds per quarter note. Returns TempoVariable unless exactly one
// governing tempo list exists and holds at least one record.
func (m *TempoMap) NominalTempo() uint32 {
	if (len(m.TempoTracks) == 1) && (len(m.TempoTracks[0]) > 0) {
		return m.TempoTracks[0][0].Tempo
	}
	return TempoVariable
}
