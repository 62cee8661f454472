// This defines a command-line utility for gathering aggregate note
// statistics across a directory of MIDI files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Patochun/M2V/midi"
	"github.com/sirupsen/logrus"
)

// Keeps running totals over every assembled track of every scanned file.
type noteStats struct {
	// One slot per MIDI note number, counting finalized notes.
	noteCounts [128]uint64
	totalNotes uint64
	// Summed note durations in seconds, for the average.
	totalDuration float64
	trackCount    int
	fileCount     int
}

// Adds the notes of the named MIDI file to the running totals.
func (s *noteStats) addFile(name string) error {
	score, e := midi.ReadFile(name)
	if e != nil {
		return e
	}
	s.fileCount++
	for _, track := range score.Tracks {
		s.trackCount++
		for _, note := range track.Notes {
			s.noteCounts[note.NoteNumber]++
			s.totalNotes++
			s.totalDuration += note.TimeOff - note.TimeOn
		}
	}
	return nil
}

// Dumps the accumulated totals to stdout.
func (s *noteStats) printInfo() {
	fmt.Printf("Scanned %d file(s), %d track(s) with notes.\n",
		s.fileCount, s.trackCount)
	for i := 0; i < 128; i++ {
		if s.noteCounts[i] == 0 {
			continue
		}
		fmt.Printf("%-4s (%3d): %d note(s)\n", midi.NoteName(uint8(i)), i,
			s.noteCounts[i])
	}
	if s.totalNotes > 0 {
		fmt.Printf("Total: %d notes, average duration %.3f seconds.\n",
			s.totalNotes, s.totalDuration/float64(s.totalNotes))
	}
}

func run() int {
	var baseDir string
	flag.StringVar(&baseDir, "dir", "", "The directory to scan for .mid "+
		"files.")
	flag.Parse()
	if baseDir == "" {
		logrus.Error("A base directory must be specified. Run with " +
			"-help for usage.")
		return 1
	}
	filenames, e := filepath.Glob(filepath.Join(baseDir, "*.mid"))
	if e != nil {
		logrus.WithError(e).Errorf("Failed looking up MIDI files in %s",
			baseDir)
		return 1
	}
	if len(filenames) == 0 {
		logrus.Errorf("Didn't find any MIDI (.mid) files in %s", baseDir)
		return 1
	}
	stats := &noteStats{}
	for i, name := range filenames {
		logrus.Infof("Scanning file %d/%d: %s", i+1, len(filenames), name)
		e = stats.addFile(name)
		if e != nil {
			logrus.WithError(e).Warnf("Skipping %s", name)
		}
	}
	stats.printInfo()
	return 0
}

func main() {
	os.Exit(run())
}
