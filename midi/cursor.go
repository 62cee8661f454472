package midi

import "encoding/binary"

// A Cursor is a sequential big-endian reader over an immutable byte
// buffer. All parse state is the position; the buffer itself is never
// modified, so slices returned by Read stay valid for the lifetime of the
// parse.
type Cursor struct {
	data []byte
	pos  int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Returns the current position as a byte offset from the start of the
// buffer.
func (c *Cursor) Offset() int {
	return c.pos
}

// Returns the number of unread bytes past the current position.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Returns exactly n bytes starting at the current position and advances
// past them. The returned slice aliases the underlying buffer and must
// not be modified.
func (c *Cursor) Read(n int) ([]byte, error) {
	if c.Remaining() < n {
		return nil, &UnexpectedEndOfDataError{
			Offset:    c.pos,
			Requested: n,
			Remaining: c.Remaining(),
		}
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) ReadByte() (byte, error) {
	b, e := c.Read(1)
	if e != nil {
		return 0, e
	}
	return b[0], nil
}

func (c *Cursor) ReadUint16() (uint16, error) {
	b, e := c.Read(2)
	if e != nil {
		return 0, e
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *Cursor) ReadUint32() (uint32, error) {
	b, e := c.Read(4)
	if e != nil {
		return 0, e
	}
	return binary.BigEndian.Uint32(b), nil
}

// Moves the position by a signed offset relative to the current position.
// The event decoder only ever rewinds a single byte, when it detects
// running status, but any in-bounds offset is accepted.
func (c *Cursor) SeekRelative(offset int) error {
	p := c.pos + offset
	if (p < 0) || (p > len(c.data)) {
		return &UnexpectedEndOfDataError{
			Offset:    c.pos,
			Requested: offset,
			Remaining: c.Remaining(),
		}
	}
	c.pos = p
	return nil
}
