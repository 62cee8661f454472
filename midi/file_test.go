package midi

import (
	"errors"
	"testing"
)

// A small format 1 file: a tempo/meta track followed by one music track
// named "Piano" playing middle C for 480 ticks.
func getTestFileBytes() []byte {
	return []byte{
		// The MThd chunk: format 1, 2 tracks, 480 ticks per quarter note.
		'M', 'T', 'h', 'd', 0, 0, 0, 6,
		0, 1,
		0, 2,
		0x01, 0xe0,
		// Track 0: time signature, tempo, end of track. The chunk length
		// is ignored by the parser, so it can stay 0 here.
		'M', 'T', 'r', 'k', 0, 0, 0, 0,
		0, 0xff, 0x58, 4, 4, 2, 24, 8,
		0, 0xff, 0x51, 3, 0x07, 0xa1, 0x20,
		0, 0xff, 0x2f, 0,
		// Track 1: track name, note on, note off (under running status,
		// 480 ticks later), end of track.
		'M', 'T', 'r', 'k', 0, 0, 0, 0,
		0, 0xff, 0x03, 5, 'P', 'i', 'a', 'n', 'o',
		0, 0x90, 60, 64,
		0x83, 0x60, 60, 0,
		0, 0xff, 0x2f, 0,
	}
}

func TestParseMIDIFile(t *testing.T) {
	f, e := ParseMIDIFile(getTestFileBytes())
	if e != nil {
		t.Logf("Failed parsing test file: %s\n", e)
		t.FailNow()
	}
	if (f.Format != 1) || (f.PPQN != 480) {
		t.Logf("Parsed wrong header fields: format %d, PPQN %d\n",
			f.Format, f.PPQN)
		t.FailNow()
	}
	if len(f.Tracks) != 2 {
		t.Logf("Parsed wrong number of tracks: %d\n", len(f.Tracks))
		t.FailNow()
	}
	expectedEventCounts := []int{3, 4}
	for i, track := range f.Tracks {
		if len(track.Events) != expectedEventCounts[i] {
			t.Logf("Track %d has wrong number of events. Expected %d, "+
				"got %d.\n", i, expectedEventCounts[i], len(track.Events))
			t.FailNow()
		}
		last := track.Events[len(track.Events)-1]
		if _, ok := last.(*EndOfTrackEvent); !ok {
			t.Logf("Track %d doesn't end with an end-of-track event: %s\n",
				i, last)
			t.FailNow()
		}
	}
	name, ok := f.Tracks[1].Events[0].(*TrackNameEvent)
	if !ok {
		t.Logf("Track 1 doesn't start with a track name event: %s\n",
			f.Tracks[1].Events[0])
		t.FailNow()
	}
	if name.Name != "Piano" {
		t.Logf("Parsed wrong track name: %q\n", name.Name)
		t.FailNow()
	}
}

func TestTruncatedFile(t *testing.T) {
	data := getTestFileBytes()
	// Cut the file off in the middle of track 1's note-on event.
	f, e := ParseMIDIFile(data[:len(data)-9])
	if e == nil {
		t.Logf("Didn't get expected error parsing a truncated file.\n")
		t.FailNow()
	}
	if f != nil {
		t.Logf("Got a non-nil file despite the parse error.\n")
		t.FailNow()
	}
	var truncated *TruncatedFileError
	if !errors.As(e, &truncated) {
		t.Logf("Got wrong error type for a truncated file: %s\n", e)
		t.FailNow()
	}
	if truncated.TrackIndex != 1 {
		t.Logf("Truncation reported on the wrong track: %d\n",
			truncated.TrackIndex)
		t.FailNow()
	}
	t.Logf("Got expected error for a truncated file: %s\n", e)
	// Cutting within the second track's 8 header bytes must blame the
	// same track.
	_, e = ParseMIDIFile(data[:45])
	if !errors.As(e, &truncated) {
		t.Logf("Got wrong error type for a missing track chunk: %s\n", e)
		t.FailNow()
	}
	if truncated.TrackIndex != 1 {
		t.Logf("Missing chunk reported on the wrong track: %d\n",
			truncated.TrackIndex)
		t.FailNow()
	}
}
