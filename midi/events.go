// This package decodes Standard MIDI Files (SMF, usually with a ".mid"
// extension) into per-track, time-stamped note events with seconds-based
// timing. It is the portable core consumed by M2V's animation generators:
// a byte-level chunk and event parser, a tempo map for tick-to-seconds
// conversion, and a note assembler pairing note-on and note-off events
// into discrete notes with per-track statistics.
package midi

import (
	"fmt"
	"strconv"
)

// Every decoded MIDI event implements this interface. The concrete types
// below form a closed set: channel events, meta events and
// system-exclusive events.
type Event interface {
	// The number of ticks between the previous event on the same track and
	// this one.
	Delta() uint32
	// A string representation of the event.
	String() string
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#",
	"A", "A#", "B"}

// NoteName returns the human-readable name of a MIDI note number, for
// example "C4" for 60.
func NoteName(note uint8) string {
	return noteNames[note%12] + strconv.Itoa(int(note)/12-1)
}

type NoteOnEvent struct {
	DeltaTime uint32
	Channel   uint8
	Note      uint8
	Velocity  uint8
}

func (e *NoteOnEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *NoteOnEvent) String() string {
	return fmt.Sprintf("Channel %d: %s on, velocity = %d", e.Channel,
		NoteName(e.Note), e.Velocity)
}

type NoteOffEvent struct {
	DeltaTime uint32
	Channel   uint8
	Note      uint8
	Velocity  uint8
}

func (e *NoteOffEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *NoteOffEvent) String() string {
	return fmt.Sprintf("Channel %d: %s off, velocity = %d", e.Channel,
		NoteName(e.Note), e.Velocity)
}

// Also known as "polyphonic key pressure": aftertouch for a single note.
type PolyPressureEvent struct {
	DeltaTime uint32
	Channel   uint8
	Note      uint8
	Pressure  uint8
}

func (e *PolyPressureEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *PolyPressureEvent) String() string {
	return fmt.Sprintf("Channel %d: %s pressure %d", e.Channel,
		NoteName(e.Note), e.Pressure)
}

type ControllerEvent struct {
	DeltaTime  uint32
	Channel    uint8
	Controller uint8
	Value      uint8
}

func (e *ControllerEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *ControllerEvent) String() string {
	return fmt.Sprintf("Channel %d: controller %d = %d", e.Channel,
		e.Controller, e.Value)
}

type ProgramChangeEvent struct {
	DeltaTime uint32
	Channel   uint8
	Program   uint8
}

func (e *ProgramChangeEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *ProgramChangeEvent) String() string {
	return fmt.Sprintf("Channel %d: program change to %d", e.Channel,
		e.Program)
}

type ChannelPressureEvent struct {
	DeltaTime uint32
	Channel   uint8
	Pressure  uint8
}

func (e *ChannelPressureEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *ChannelPressureEvent) String() string {
	return fmt.Sprintf("Channel %d: channel pressure %d", e.Channel,
		e.Pressure)
}

// The two data bytes are kept raw rather than combined into a 14-bit
// value; consumers that care can combine them.
type PitchBendEvent struct {
	DeltaTime uint32
	Channel   uint8
	LSB       uint8
	MSB       uint8
}

func (e *PitchBendEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *PitchBendEvent) String() string {
	return fmt.Sprintf("Channel %d: pitch bend lsb=%d msb=%d", e.Channel,
		e.LSB, e.MSB)
}

type SequenceNumberEvent struct {
	DeltaTime uint32
	Number    uint16
}

func (e *SequenceNumberEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *SequenceNumberEvent) String() string {
	return fmt.Sprintf("Sequence number: %d", e.Number)
}

type TextEvent struct {
	DeltaTime uint32
	Text      string
}

func (e *TextEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *TextEvent) String() string {
	return fmt.Sprintf("Text: %q", e.Text)
}

type CopyrightEvent struct {
	DeltaTime uint32
	Text      string
}

func (e *CopyrightEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *CopyrightEvent) String() string {
	return fmt.Sprintf("Copyright: %q", e.Text)
}

type TrackNameEvent struct {
	DeltaTime uint32
	Name      string
}

func (e *TrackNameEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *TrackNameEvent) String() string {
	return fmt.Sprintf("Track name: %q", e.Name)
}

type InstrumentNameEvent struct {
	DeltaTime uint32
	Name      string
}

func (e *InstrumentNameEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *InstrumentNameEvent) String() string {
	return fmt.Sprintf("Instrument name: %q", e.Name)
}

type LyricEvent struct {
	DeltaTime uint32
	Text      string
}

func (e *LyricEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *LyricEvent) String() string {
	return fmt.Sprintf("Lyric: %q", e.Text)
}

type MarkerEvent struct {
	DeltaTime uint32
	Text      string
}

func (e *MarkerEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *MarkerEvent) String() string {
	return fmt.Sprintf("Marker: %q", e.Text)
}

type CuePointEvent struct {
	DeltaTime uint32
	Text      string
}

func (e *CuePointEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *CuePointEvent) String() string {
	return fmt.Sprintf("Cue point: %q", e.Text)
}

type ProgramNameEvent struct {
	DeltaTime uint32
	Name      string
}

func (e *ProgramNameEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *ProgramNameEvent) String() string {
	return fmt.Sprintf("Program name: %q", e.Name)
}

type DeviceNameEvent struct {
	DeltaTime uint32
	Name      string
}

func (e *DeviceNameEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *DeviceNameEvent) String() string {
	return fmt.Sprintf("Device name: %q", e.Name)
}

// Associates subsequent meta and sysex events with a channel number.
type ChannelPrefixEvent struct {
	DeltaTime uint32
	Channel   uint8
}

func (e *ChannelPrefixEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *ChannelPrefixEvent) String() string {
	return fmt.Sprintf("Channel prefix: %d", e.Channel)
}

type MidiPortEvent struct {
	DeltaTime uint32
	Port      uint8
}

func (e *MidiPortEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *MidiPortEvent) String() string {
	return fmt.Sprintf("MIDI port: %d", e.Port)
}

// Always the last event of a track; nothing follows it.
type EndOfTrackEvent struct {
	DeltaTime uint32
}

func (e *EndOfTrackEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *EndOfTrackEvent) String() string {
	return "End of track"
}

// Holds the 24-bit "set tempo" value: the number of microseconds per
// quarter note.
type TempoEvent struct {
	DeltaTime uint32
	Tempo     uint32
}

func (e *TempoEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *TempoEvent) String() string {
	bpm := 60000000.0 / float64(e.Tempo)
	return fmt.Sprintf("Set tempo to %d us/quarter note (%.1f BPM)",
		e.Tempo, bpm)
}

type SmpteOffsetEvent struct {
	DeltaTime        uint32
	Hours            uint8
	Minutes          uint8
	Seconds          uint8
	Frames           uint8
	FractionalFrames uint8
}

func (e *SmpteOffsetEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *SmpteOffsetEvent) String() string {
	// The fractional frames field counts hundredths of a frame.
	frame := float64(e.Frames) + float64(e.FractionalFrames)/100.0
	return fmt.Sprintf("SMPTE offset: %d:%d:%d, %.2f frames", e.Hours,
		e.Minutes, e.Seconds, frame)
}

type TimeSignatureEvent struct {
	DeltaTime uint32
	Numerator uint8
	// A negative power of 2: 3 means the signature is x/8.
	Denominator            uint8
	ClocksPerClick         uint8
	ThirtySecondsPerClocks uint8
}

func (e *TimeSignatureEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *TimeSignatureEvent) String() string {
	// Denominator exponents of 32 or more would shift the base to 0;
	// nothing sane uses them, so print the raw exponent instead.
	if e.Denominator >= 32 {
		return fmt.Sprintf("Time signature: %d/2^%d", e.Numerator,
			e.Denominator)
	}
	base := uint32(1) << uint32(e.Denominator)
	return fmt.Sprintf("Time signature: %d/%d", e.Numerator, base)
}

type KeySignatureEvent struct {
	DeltaTime uint32
	// From -7 (7 flats) through +7 (7 sharps).
	SharpsOrFlats int8
	// 0 for a major key, 1 for a minor key.
	MajorMinor uint8
}

func (e *KeySignatureEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *KeySignatureEvent) String() string {
	mode := "major"
	if e.MajorMinor == 1 {
		mode = "minor"
	}
	return fmt.Sprintf("Key signature: %d sharps/flats, %s",
		e.SharpsOrFlats, mode)
}

type SequencerSpecificEvent struct {
	DeltaTime uint32
	Data      []byte
}

func (e *SequencerSpecificEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *SequencerSpecificEvent) String() string {
	return fmt.Sprintf("Sequencer-specific event, %d bytes", len(e.Data))
}

// Holds a system-exclusive message's payload verbatim; no interpretation
// is attempted.
type SysExEvent struct {
	DeltaTime uint32
	Data      []byte
}

func (e *SysExEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *SysExEvent) String() string {
	return fmt.Sprintf("System exclusive message, %d bytes: % x",
		len(e.Data), e.Data)
}

type EscapeSequenceEvent struct {
	DeltaTime uint32
	Data      []byte
}

func (e *EscapeSequenceEvent) Delta() uint32 {
	return e.DeltaTime
}

func (e *EscapeSequenceEvent) String() string {
	return fmt.Sprintf("Escape sequence, %d bytes: % x", len(e.Data),
		e.Data)
}
