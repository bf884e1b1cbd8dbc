// Package binary provides bounds-checked access to little-endian values in ROM images.
package binary

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is matched by every error returned for an access past the buffer end.
var ErrOutOfBounds = errors.New("offset out of bounds")

// OutOfBoundsError describes an access of Size bytes at Offset into a buffer of length Len.
type OutOfBoundsError struct {
	Offset int
	Size   int
	Len    int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("access of %d bytes at 0x%06X exceeds buffer length 0x%06X", e.Size, e.Offset, e.Len)
}

// Is reports whether target is ErrOutOfBounds.
func (*OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}

func checkRange(buf []byte, offset, n int) error {
	if offset < 0 || n < 0 || offset > len(buf)-n {
		return &OutOfBoundsError{Offset: offset, Size: n, Len: len(buf)}
	}
	return nil
}

// ReadBytesAt returns the n bytes of buf at offset. The result shares memory with buf.
func ReadBytesAt(buf []byte, offset, n int) ([]byte, error) {
	if err := checkRange(buf, offset, n); err != nil {
		return nil, err
	}
	return buf[offset : offset+n : offset+n], nil
}

// ReadUint8At reads a single byte from buf at offset.
func ReadUint8At(buf []byte, offset int) (uint8, error) {
	if err := checkRange(buf, offset, 1); err != nil {
		return 0, err
	}
	return buf[offset], nil
}

// ReadUint16LEAt reads a little-endian uint16 from buf at offset.
func ReadUint16LEAt(buf []byte, offset int) (uint16, error) {
	if err := checkRange(buf, offset, 2); err != nil {
		return 0, err
	}
	return uint16(buf[offset]) | uint16(buf[offset+1])<<8, nil
}

// ReadUint24LEAt reads a little-endian 24-bit value (a SNES long pointer) from buf at offset.
func ReadUint24LEAt(buf []byte, offset int) (uint32, error) {
	if err := checkRange(buf, offset, 3); err != nil {
		return 0, err
	}
	return uint32(buf[offset]) | uint32(buf[offset+1])<<8 | uint32(buf[offset+2])<<16, nil
}

// ReadUint32LEAt reads a little-endian uint32 from buf at offset.
func ReadUint32LEAt(buf []byte, offset int) (uint32, error) {
	if err := checkRange(buf, offset, 4); err != nil {
		return 0, err
	}
	return uint32(buf[offset]) | uint32(buf[offset+1])<<8 |
		uint32(buf[offset+2])<<16 | uint32(buf[offset+3])<<24, nil
}

// Reader is a cursor over a byte buffer.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader positioned at offset 0 of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// NewReaderAt returns a Reader positioned at offset.
func NewReaderAt(buf []byte, offset int) (*Reader, error) {
	r := NewReader(buf)
	if err := r.Seek(offset); err != nil {
		return nil, err
	}
	return r, nil
}

// Pos returns the current cursor offset.
func (r *Reader) Pos() int { return r.pos }

// Len returns the length of the underlying buffer.
func (r *Reader) Len() int { return len(r.buf) }

// Remaining returns the number of bytes after the cursor.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Seek moves the cursor to an absolute offset. Seeking to the buffer end is allowed.
func (r *Reader) Seek(offset int) error {
	if err := checkRange(r.buf, offset, 0); err != nil {
		return err
	}
	r.pos = offset
	return nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if err := checkRange(r.buf, r.pos, n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// ReadBytes reads n bytes and advances the cursor. The result shares memory with the buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := ReadBytesAt(r.buf, r.pos, n)
	if err != nil {
		return nil, err
	}
	r.pos += n
	return b, nil
}

// ReadUint8 reads one byte and advances the cursor.
func (r *Reader) ReadUint8() (uint8, error) {
	v, err := ReadUint8At(r.buf, r.pos)
	if err != nil {
		return 0, err
	}
	r.pos++
	return v, nil
}

// ReadUint16 reads a little-endian uint16 and advances the cursor.
func (r *Reader) ReadUint16() (uint16, error) {
	v, err := ReadUint16LEAt(r.buf, r.pos)
	if err != nil {
		return 0, err
	}
	r.pos += 2
	return v, nil
}

// ReadUint24 reads a little-endian 24-bit value and advances the cursor.
func (r *Reader) ReadUint24() (uint32, error) {
	v, err := ReadUint24LEAt(r.buf, r.pos)
	if err != nil {
		return 0, err
	}
	r.pos += 3
	return v, nil
}

// ReadUint32 reads a little-endian uint32 and advances the cursor.
func (r *Reader) ReadUint32() (uint32, error) {
	v, err := ReadUint32LEAt(r.buf, r.pos)
	if err != nil {
		return 0, err
	}
	r.pos += 4
	return v, nil
}

// CountRun returns how many consecutive bytes equal to b start at offset.
func CountRun(buf []byte, offset int, b byte) int {
	if offset < 0 {
		return 0
	}
	n := 0
	for i := offset; i < len(buf) && buf[i] == b; i++ {
		n++
	}
	return n
}
