package midi

import (
	"bytes"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Cross-checks the parser against a file produced by an independent SMF
// writer rather than hand-assembled bytes.
func TestParseGeneratedFile(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	var tempoTrack smf.Track
	tempoTrack.Add(0, smf.MetaMeter(4, 4))
	tempoTrack.Add(0, smf.MetaTempo(120))
	tempoTrack.Close(0)
	if e := s.Add(tempoTrack); e != nil {
		t.Logf("Failed adding tempo track: %s\n", e)
		t.FailNow()
	}
	var musicTrack smf.Track
	musicTrack.Add(0, smf.Message([]byte{0xff, 0x03, 5, 'P', 'i', 'a', 'n',
		'o'}))
	musicTrack.Add(0, gomidi.NoteOn(0, 60, 64))
	musicTrack.Add(480, gomidi.NoteOff(0, 60))
	musicTrack.Close(0)
	if e := s.Add(musicTrack); e != nil {
		t.Logf("Failed adding music track: %s\n", e)
		t.FailNow()
	}
	var buf bytes.Buffer
	if _, e := s.WriteTo(&buf); e != nil {
		t.Logf("Failed serializing the generated file: %s\n", e)
		t.FailNow()
	}
	score, e := Parse(buf.Bytes())
	if e != nil {
		t.Logf("Failed parsing the generated file: %s\n", e)
		t.FailNow()
	}
	if (score.Format != 1) || (score.PPQN != 480) {
		t.Logf("Parsed wrong header fields: format %d, PPQN %d\n",
			score.Format, score.PPQN)
		t.FailNow()
	}
	// 120 BPM is 500000 microseconds per quarter note.
	if score.Tempo != 500000 {
		t.Logf("Parsed wrong nominal tempo: %d\n", score.Tempo)
		t.FailNow()
	}
	if len(score.Tracks) != 1 {
		t.Logf("Expected 1 assembled track, got %d\n", len(score.Tracks))
		t.FailNow()
	}
	track := score.Tracks[0]
	if track.Name != "Piano" {
		t.Logf("Parsed wrong track name: %q\n", track.Name)
		t.FailNow()
	}
	if len(track.Notes) != 1 {
		t.Logf("Expected 1 note, got %d\n", len(track.Notes))
		t.FailNow()
	}
	note := track.Notes[0]
	if (note.Channel != 0) || (note.NoteNumber != 60) {
		t.Logf("Assembled wrong note: channel %d, note %d\n", note.Channel,
			note.NoteNumber)
		t.FailNow()
	}
	if !floatsEqual(note.TimeOn, 0.0) || !floatsEqual(note.TimeOff, 0.5) {
		t.Logf("Assembled wrong note times: %f - %f\n", note.TimeOn,
			note.TimeOff)
		t.FailNow()
	}
	if !floatsEqual(note.Velocity, 64.0/127.0) {
		t.Logf("Assembled wrong velocity: %f\n", note.Velocity)
		t.FailNow()
	}
}
