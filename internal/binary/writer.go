package binary

// Writer is a growable buffer supporting absolute writes and appends.
type Writer struct {
	buf []byte
}

// NewWriter returns a Writer that takes ownership of buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf}
}

// Bytes returns the written buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Len returns the current buffer length.
func (w *Writer) Len() int { return len(w.buf) }

// WriteAt copies b into the buffer at offset. The write must fit the current length.
func (w *Writer) WriteAt(offset int, b []byte) error {
	if err := checkRange(w.buf, offset, len(b)); err != nil {
		return err
	}
	copy(w.buf[offset:], b)
	return nil
}

// PutUint8At writes a byte at offset.
func (w *Writer) PutUint8At(offset int, v uint8) error {
	return w.WriteAt(offset, []byte{v})
}

// PutUint16At writes a little-endian uint16 at offset.
func (w *Writer) PutUint16At(offset int, v uint16) error {
	return w.WriteAt(offset, []byte{byte(v), byte(v >> 8)})
}

// PutUint24At writes a little-endian 24-bit value at offset.
func (w *Writer) PutUint24At(offset int, v uint32) error {
	return w.WriteAt(offset, []byte{byte(v), byte(v >> 8), byte(v >> 16)})
}

// Append adds b to the end of the buffer and returns the offset it was written at.
func (w *Writer) Append(b []byte) int {
	offset := len(w.buf)
	w.buf = append(w.buf, b...)
	return offset
}

// Grow extends the buffer by n bytes of fill and returns the offset of the new region.
func (w *Writer) Grow(n int, fill byte) int {
	offset := len(w.buf)
	for range n {
		w.buf = append(w.buf, fill)
	}
	return offset
}

// AppendUint16 appends a little-endian uint16 to b.
func AppendUint16(b []byte, v uint16) []byte {
	return append(b, byte(v), byte(v>>8))
}

// AppendUint24 appends a little-endian 24-bit value to b.
func AppendUint24(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16))
}
