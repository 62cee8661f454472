package midi

// This file contains the per-event decoding logic: variable-length
// quantities, running status, and the channel/meta/sysex dispatch tables.

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// Meta-event type bytes, per the SMF specification.
const (
	metaSequenceNumber    = 0x00
	metaText              = 0x01
	metaCopyright         = 0x02
	metaTrackName         = 0x03
	metaInstrumentName    = 0x04
	metaLyric             = 0x05
	metaMarker            = 0x06
	metaCuePoint          = 0x07
	metaProgramName       = 0x08
	metaDeviceName        = 0x09
	metaChannelPrefix     = 0x20
	metaMidiPort          = 0x21
	metaEndOfTrack        = 0x2f
	metaTempo             = 0x51
	metaSmpteOffset       = 0x54
	metaTimeSignature     = 0x58
	metaKeySignature      = 0x59
	metaSequencerSpecific = 0x7f
)

// Reads a MIDI-format variable-length quantity (big-endian base-128, high
// bit of each byte signalling continuation, up to 0x0fffffff). Returns an
// error if the quantity is too long or the data runs out mid-sequence.
func ReadVariableLengthQuantity(c *Cursor) (uint32, error) {
	toReturn := uint32(0)
	for i := 0; i < 4; i++ {
		b, e := c.ReadByte()
		if e != nil {
			return 0, e
		}
		toReturn |= uint32(b & 0x7f)
		if (b & 0x80) == 0 {
			return toReturn, nil
		}
		if i == 3 {
			return 0, fmt.Errorf("Invalid variable-length quantity: "+
				"continuation bit still set on byte 4 (offset %d)",
				c.Offset())
		}
		toReturn = toReturn << 7
	}
	return toReturn, nil
}

// EncodeVariableLengthQuantity returns the SMF encoding of n, which must
// be at most 0x0fffffff.
func EncodeVariableLengthQuantity(n uint32) ([]byte, error) {
	if n > 0x0fffffff {
		return nil, fmt.Errorf("Integer 0x%08x is too large for a "+
			"variable-length quantity", n)
	}
	toReturn := []byte{byte(n & 0x7f)}
	n = n >> 7
	for n != 0 {
		toReturn = append([]byte{byte(n&0x7f) | 0x80}, toReturn...)
		n = n >> 7
	}
	return toReturn, nil
}

// Text-bearing meta events use single-byte ISO 8859-1 text, not UTF-8;
// plenty of older files carry extended-ASCII bytes in names and lyrics.
func decodeLatin1(b []byte) string {
	s, e := charmap.ISO8859_1.NewDecoder().String(string(b))
	if e != nil {
		return string(b)
	}
	return s
}

// Decodes the single event at the cursor position. runningStatus must be
// the status byte of the most recent event on the track, or 0 if none has
// been seen; the updated running status is returned alongside the event.
func decodeEvent(c *Cursor, runningStatus byte) (Event, byte, error) {
	delta, e := ReadVariableLengthQuantity(c)
	if e != nil {
		return nil, runningStatus, e
	}
	statusOffset := c.Offset()
	first, e := c.ReadByte()
	if e != nil {
		return nil, runningStatus, e
	}
	status := first
	if (first & 0x80) == 0 {
		// Running status: the byte just read is actually the event's first
		// data byte, so put it back and reuse the previous status.
		if e = c.SeekRelative(-1); e != nil {
			return nil, runningStatus, e
		}
		status = runningStatus
	} else {
		runningStatus = first
	}
	var event Event
	switch {
	case status == 0xff:
		event, e = decodeMetaEvent(c, delta)
	case (status == 0xf0) || (status == 0xf7):
		event, e = decodeSysExEvent(c, delta, status)
	case (status >= 0x80) && (status <= 0xef):
		event, e = decodeChannelEvent(c, delta, status)
	default:
		bad := status
		if (bad & 0x80) == 0 {
			bad = first
		}
		return nil, runningStatus, &UnknownEventTypeError{
			Offset: statusOffset,
			Byte:   bad,
		}
	}
	return event, runningStatus, e
}

// Decodes a channel event. status must be in the 0x80-0xef range; its low
// nibble is the channel, its high nibble selects the event kind, and each
// kind consumes a fixed one or two data bytes.
func decodeChannelEvent(c *Cursor, delta uint32, status byte) (Event,
	error) {
	channel := status & 0x0f
	switch status & 0xf0 {
	case 0x80:
		data, e := c.Read(2)
		if e != nil {
			return nil, e
		}
		return &NoteOffEvent{
			DeltaTime: delta,
			Channel:   channel,
			Note:      data[0],
			Velocity:  data[1],
		}, nil
	case 0x90:
		data, e := c.Read(2)
		if e != nil {
			return nil, e
		}
		if data[1] == 0 {
			// A note-on with zero velocity terminates the note: the
			// standard convention for ending notes under running status.
			return &NoteOffEvent{
				DeltaTime: delta,
				Channel:   channel,
				Note:      data[0],
				Velocity:  0,
			}, nil
		}
		return &NoteOnEvent{
			DeltaTime: delta,
			Channel:   channel,
			Note:      data[0],
			Velocity:  data[1],
		}, nil
	case 0xa0:
		data, e := c.Read(2)
		if e != nil {
			return nil, e
		}
		return &PolyPressureEvent{
			DeltaTime: delta,
			Channel:   channel,
			Note:      data[0],
			Pressure:  data[1],
		}, nil
	case 0xb0:
		data, e := c.Read(2)
		if e != nil {
			return nil, e
		}
		return &ControllerEvent{
			DeltaTime:  delta,
			Channel:    channel,
			Controller: data[0],
			Value:      data[1],
		}, nil
	case 0xc0:
		program, e := c.ReadByte()
		if e != nil {
			return nil, e
		}
		return &ProgramChangeEvent{
			DeltaTime: delta,
			Channel:   channel,
			Program:   program,
		}, nil
	case 0xd0:
		pressure, e := c.ReadByte()
		if e != nil {
			return nil, e
		}
		return &ChannelPressureEvent{
			DeltaTime: delta,
			Channel:   channel,
			Pressure:  pressure,
		}, nil
	case 0xe0:
		data, e := c.Read(2)
		if e != nil {
			return nil, e
		}
		return &PitchBendEvent{
			DeltaTime: delta,
			Channel:   channel,
			LSB:       data[0],
			MSB:       data[1],
		}, nil
	}
	return nil, &UnknownEventTypeError{Offset: c.Offset(), Byte: status}
}

// Verifies that a meta-event payload is at least n bytes long. payload
// slices never extend past the declared event length, so a fixed field
// running past it surfaces the same way as reading past the buffer.
func requirePayload(payload []byte, n, offset int) error {
	if len(payload) < n {
		return &UnexpectedEndOfDataError{
			Offset:    offset,
			Requested: n,
			Remaining: len(payload),
		}
	}
	return nil
}

// Decodes a meta event. Assumes the 0xff status byte has already been
// consumed. Unknown meta-event types are fatal.
func decodeMetaEvent(c *Cursor, delta uint32) (Event, error) {
	typeOffset := c.Offset()
	eventType, e := c.ReadByte()
	if e != nil {
		return nil, e
	}
	length, e := ReadVariableLengthQuantity(c)
	if e != nil {
		return nil, e
	}
	payloadOffset := c.Offset()
	payload, e := c.Read(int(length))
	if e != nil {
		return nil, e
	}
	switch eventType {
	case metaSequenceNumber:
		if e = requirePayload(payload, 2, payloadOffset); e != nil {
			return nil, e
		}
		return &SequenceNumberEvent{
			DeltaTime: delta,
			Number:    binary.BigEndian.Uint16(payload),
		}, nil
	case metaText:
		return &TextEvent{DeltaTime: delta, Text: decodeLatin1(payload)}, nil
	case metaCopyright:
		return &CopyrightEvent{
			DeltaTime: delta,
			Text:      decodeLatin1(payload),
		}, nil
	case metaTrackName:
		return &TrackNameEvent{
			DeltaTime: delta,
			Name:      decodeLatin1(payload),
		}, nil
	case metaInstrumentName:
		return &InstrumentNameEvent{
			DeltaTime: delta,
			Name:      decodeLatin1(payload),
		}, nil
	case metaLyric:
		return &LyricEvent{DeltaTime: delta, Text: decodeLatin1(payload)}, nil
	case metaMarker:
		return &MarkerEvent{DeltaTime: delta, Text: decodeLatin1(payload)}, nil
	case metaCuePoint:
		return &CuePointEvent{
			DeltaTime: delta,
			Text:      decodeLatin1(payload),
		}, nil
	case metaProgramName:
		return &ProgramNameEvent{
			DeltaTime: delta,
			Name:      decodeLatin1(payload),
		}, nil
	case metaDeviceName:
		return &DeviceNameEvent{
			DeltaTime: delta,
			Name:      decodeLatin1(payload),
		}, nil
	case metaChannelPrefix:
		if e = requirePayload(payload, 1, payloadOffset); e != nil {
			return nil, e
		}
		return &ChannelPrefixEvent{DeltaTime: delta, Channel: payload[0]}, nil
	case metaMidiPort:
		if e = requirePayload(payload, 1, payloadOffset); e != nil {
			return nil, e
		}
		return &MidiPortEvent{DeltaTime: delta, Port: payload[0]}, nil
	case metaEndOfTrack:
		return &EndOfTrackEvent{DeltaTime: delta}, nil
	case metaTempo:
		if e = requirePayload(payload, 3, payloadOffset); e != nil {
			return nil, e
		}
		tempo := uint32(payload[0])<<16 | uint32(payload[1])<<8 |
			uint32(payload[2])
		return &TempoEvent{DeltaTime: delta, Tempo: tempo}, nil
	case metaSmpteOffset:
		if e = requirePayload(payload, 5, payloadOffset); e != nil {
			return nil, e
		}
		return &SmpteOffsetEvent{
			DeltaTime:        delta,
			Hours:            payload[0],
			Minutes:          payload[1],
			Seconds:          payload[2],
			Frames:           payload[3],
			FractionalFrames: payload[4],
		}, nil
	case metaTimeSignature:
		if e = requirePayload(payload, 4, payloadOffset); e != nil {
			return nil, e
		}
		return &TimeSignatureEvent{
			DeltaTime:              delta,
			Numerator:              payload[0],
			Denominator:            payload[1],
			ClocksPerClick:         payload[2],
			ThirtySecondsPerClocks: payload[3],
		}, nil
	case metaKeySignature:
		if e = requirePayload(payload, 2, payloadOffset); e != nil {
			return nil, e
		}
		return &KeySignatureEvent{
			DeltaTime:     delta,
			SharpsOrFlats: int8(payload[0]),
			MajorMinor:    payload[1],
		}, nil
	case metaSequencerSpecific:
		return &SequencerSpecificEvent{
			DeltaTime: delta,
			Data:      append([]byte(nil), payload...),
		}, nil
	}
	return nil, &UnknownEventTypeError{Offset: typeOffset, Byte: eventType}
}

// Decodes a system-exclusive (0xf0) or escape-sequence (0xf7) event. The
// payload is captured verbatim.
func decodeSysExEvent(c *Cursor, delta uint32, status byte) (Event, error) {
	length, e := ReadVariableLengthQuantity(c)
	if e != nil {
		return nil, e
	}
	payload, e := c.Read(int(length))
	if e != nil {
		return nil, e
	}
	data := append([]byte(nil), payload...)
	if status == 0xf0 {
		return &SysExEvent{DeltaTime: delta, Data: data}, nil
	}
	return &EscapeSequenceEvent{DeltaTime: delta, Data: data}, nil
}
