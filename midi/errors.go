package midi

import "fmt"

// Returned when a read runs past the end of the byte buffer. This aborts
// the whole-file parse; MIDI data is static input and there is nothing to
// retry.
type UnexpectedEndOfDataError struct {
	// The cursor position at which the read was attempted.
	Offset int
	// The number of bytes the read asked for.
	Requested int
	// The number of bytes that were actually left.
	Remaining int
}

func (e *UnexpectedEndOfDataError) Error() string {
	return fmt.Sprintf("Unexpected end of data at offset %d: wanted %d "+
		"bytes, have %d", e.Offset, e.Requested, e.Remaining)
}

// Returned when a status byte or meta-event type byte isn't one we
// recognize. Carries the offending byte and its position for diagnostics;
// the only recovery is aborting the parse.
type UnknownEventTypeError struct {
	// The position of the offending byte in the buffer.
	Offset int
	// The offending byte itself.
	Byte byte
}

func (e *UnknownEventTypeError) Error() string {
	return fmt.Sprintf("Unknown event type 0x%02x at offset %d", e.Byte,
		e.Offset)
}

// Returned when a track chunk's data runs out before an end-of-track
// event was seen. Wraps the underlying cursor failure.
type TruncatedFileError struct {
	// The index of the track being parsed when the data ran out.
	TrackIndex int
	Err        error
}

func (e *TruncatedFileError) Error() string {
	return fmt.Sprintf("Track %d ended without an end-of-track event: %s",
		e.TrackIndex, e.Err)
}

func (e *TruncatedFileError) Unwrap() error {
	return e.Err
}
