package midi

import (
	"bytes"
	"errors"
	"testing"
)

func TestCursorReads(t *testing.T) {
	c := NewCursor([]byte{0x4d, 0x54, 0x68, 0x64, 0, 1, 0, 0, 0, 6})
	tag, e := c.Read(4)
	if e != nil {
		t.Logf("Failed reading 4 bytes: %s\n", e)
		t.FailNow()
	}
	if !bytes.Equal(tag, []byte("MThd")) {
		t.Logf("Read wrong bytes: % x\n", tag)
		t.FailNow()
	}
	if c.Offset() != 4 {
		t.Logf("Wrong offset after reading 4 bytes: %d\n", c.Offset())
		t.FailNow()
	}
	v16, e := c.ReadUint16()
	if e != nil {
		t.Logf("Failed reading uint16: %s\n", e)
		t.FailNow()
	}
	if v16 != 1 {
		t.Logf("Read wrong big-endian uint16: %d\n", v16)
		t.FailNow()
	}
	v32, e := c.ReadUint32()
	if e != nil {
		t.Logf("Failed reading uint32: %s\n", e)
		t.FailNow()
	}
	if v32 != 6 {
		t.Logf("Read wrong big-endian uint32: %d\n", v32)
		t.FailNow()
	}
	if c.Remaining() != 0 {
		t.Logf("Expected 0 bytes remaining, got %d\n", c.Remaining())
		t.FailNow()
	}
	_, e = c.ReadByte()
	if e == nil {
		t.Logf("Didn't get expected error reading past the end.\n")
		t.FailNow()
	}
	var eod *UnexpectedEndOfDataError
	if !errors.As(e, &eod) {
		t.Logf("Got wrong error type reading past the end: %s\n", e)
		t.FailNow()
	}
	if (eod.Offset != 10) || (eod.Requested != 1) || (eod.Remaining != 0) {
		t.Logf("Got wrong end-of-data details: %s\n", eod)
		t.FailNow()
	}
	t.Logf("Got expected end-of-data error: %s\n", e)
}

func TestCursorSeekRelative(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	c.ReadByte()
	c.ReadByte()
	e := c.SeekRelative(-1)
	if e != nil {
		t.Logf("Failed rewinding one byte: %s\n", e)
		t.FailNow()
	}
	b, e := c.ReadByte()
	if e != nil {
		t.Logf("Failed re-reading after rewind: %s\n", e)
		t.FailNow()
	}
	if b != 2 {
		t.Logf("Read wrong byte after rewind: %d\n", b)
		t.FailNow()
	}
	if e = c.SeekRelative(-5); e == nil {
		t.Logf("Didn't get expected error seeking before the start.\n")
		t.FailNow()
	}
	if e = c.SeekRelative(10); e == nil {
		t.Logf("Didn't get expected error seeking past the end.\n")
		t.FailNow()
	}
	if c.Offset() != 2 {
		t.Logf("Failed seeks moved the cursor: offset %d\n", c.Offset())
		t.FailNow()
	}
}
