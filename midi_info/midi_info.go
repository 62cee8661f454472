// This defines a command-line utility for inspecting standard MIDI files
// (SMF, usually with a ".mid" extension) and the note timelines derived
// from them.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Patochun/M2V/midi"
	"github.com/sirupsen/logrus"
)

func printEvents(f *midi.MIDIFile) {
	for i, track := range f.Tracks {
		fmt.Printf("Raw track %d (%d events):\n", i, len(track.Events))
		for j, event := range track.Events {
			fmt.Printf("  %d. Time-delta %d: %s\n", j+1, event.Delta(),
				event)
		}
	}
}

func printTracks(tracks []*midi.Track, dumpNotes bool) {
	fmt.Printf("%d track(s) with notes:\n", len(tracks))
	for _, track := range tracks {
		fmt.Printf("Track %d %q: %d notes, %d distinct pitches "+
			"(%s - %s), velocity %d - %d\n", track.Index, track.Name,
			len(track.Notes), len(track.NotesUsed),
			midi.NoteName(track.MinNote), midi.NoteName(track.MaxNote),
			track.MinVelocity, track.MaxVelocity)
		if !dumpNotes {
			continue
		}
		for _, note := range track.Notes {
			fmt.Printf("  %8.3fs - %8.3fs: channel %d, %s, velocity "+
				"%.3f\n", note.TimeOn, note.TimeOff, note.Channel,
				midi.NoteName(note.NoteNumber), note.Velocity)
		}
	}
}

func run() int {
	var filename string
	var dumpEvents, dumpNotes bool
	flag.StringVar(&filename, "input_file", "", "The .mid file to open.")
	flag.BoolVar(&dumpEvents, "dump_events", false, "If set, print a list "+
		"of all raw events in the file to stdout.")
	flag.BoolVar(&dumpNotes, "dump_notes", false, "If set, print every "+
		"assembled note to stdout.")
	flag.Parse()
	if filename == "" {
		logrus.Error("An input file must be specified. Run with -help " +
			"for usage.")
		return 1
	}
	data, e := os.ReadFile(filename)
	if e != nil {
		logrus.WithError(e).Errorf("Couldn't read %s", filename)
		return 1
	}
	midiFile, e := midi.ParseMIDIFile(data)
	if e != nil {
		logrus.WithError(e).Errorf("Couldn't parse %s", filename)
		return 1
	}
	tempoMap := midi.NewTempoMap(midiFile)
	tracks := midi.AssembleTracks(midiFile, tempoMap)
	fmt.Printf("Parsed %s OK: format %d, %d raw tracks, %d ticks per "+
		"quarter note.\n", filename, midiFile.Format, len(midiFile.Tracks),
		midiFile.PPQN)
	tempo := tempoMap.NominalTempo()
	if tempo == midi.TempoVariable {
		fmt.Printf("No single nominal tempo: the tempo changes or " +
			"multiple tempo tracks exist.\n")
	} else {
		fmt.Printf("Nominal tempo: %d us per quarter note (%.1f BPM).\n",
			tempo, 60000000.0/float64(tempo))
	}
	if dumpEvents {
		printEvents(midiFile)
	}
	printTracks(tracks, dumpNotes)
	return 0
}

func main() {
	os.Exit(run())
}
