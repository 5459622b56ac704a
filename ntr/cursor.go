package ntr

import (
	"bytes"
	"encoding/binary"
	"errors"
)

var errShortRead = errors.New("ntr: unexpected end of data")

// Reader is a little-endian cursor over a byte slice.
type Reader struct {
	b   []byte
	off int
}

// NewReader returns a cursor positioned at the start of b.
func NewReader(b []byte) *Reader {
	return &Reader{b: b}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.b) - r.off
}

// Bytes consumes and returns the next n bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, errShortRead
	}
	b := r.b[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Uint8 consumes a single byte.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 consumes a little-endian 16-bit value.
func (r *Reader) Uint16() (uint16, error) {
	b, err := r.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Int16 consumes a little-endian signed 16-bit value.
func (r *Reader) Int16() (int16, error) {
	v, err := r.Uint16()
	return int16(v), err
}

// Uint32 consumes a little-endian 32-bit value.
func (r *Reader) Uint32() (uint32, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Tag consumes a 4-character block or file identifier.
func (r *Reader) Tag() (string, error) {
	b, err := r.Bytes(4)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PeekUint32 returns the next little-endian 32-bit value without consuming
// it.
func (r *Reader) PeekUint32() (uint32, error) {
	if r.Len() < 4 {
		return 0, errShortRead
	}
	return binary.LittleEndian.Uint32(r.b[r.off:]), nil
}

// Writer accumulates little-endian fields into a byte buffer. Writes to the
// underlying buffer cannot fail so none of the methods return an error.
type Writer struct {
	buf bytes.Buffer
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Write appends raw bytes.
func (w *Writer) Write(b []byte) {
	w.buf.Write(b)
}

// Uint8 appends a single byte.
func (w *Writer) Uint8(v uint8) {
	w.buf.WriteByte(v)
}

// Uint16 appends a little-endian 16-bit value.
func (w *Writer) Uint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// Int16 appends a little-endian signed 16-bit value.
func (w *Writer) Int16(v int16) {
	w.Uint16(uint16(v))
}

// Uint32 appends a little-endian 32-bit value.
func (w *Writer) Uint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// Tag appends a 4-character identifier as-is.
func (w *Writer) Tag(s string) {
	w.buf.WriteString(s)
}

// String appends a string as-is.
func (w *Writer) String(s string) {
	w.buf.WriteString(s)
}
