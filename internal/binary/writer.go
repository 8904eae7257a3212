package binary

import (
	"bytes"
)

// Writer provides buffered big-endian writing for class file encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// U8 writes a single byte.
func (w *Writer) U8(b uint8) {
	w.buf.WriteByte(b)
}

// U16 writes a big-endian uint16.
func (w *Writer) U16(v uint16) {
	w.buf.WriteByte(byte(v >> 8))
	w.buf.WriteByte(byte(v))
}

// U32 writes a big-endian uint32.
func (w *Writer) U32(v uint32) {
	w.buf.WriteByte(byte(v >> 24))
	w.buf.WriteByte(byte(v >> 16))
	w.buf.WriteByte(byte(v >> 8))
	w.buf.WriteByte(byte(v))
}

// U64 writes a big-endian uint64.
func (w *Writer) U64(v uint64) {
	w.U32(uint32(v >> 32))
	w.U32(uint32(v))
}

// WriteBytes writes a byte slice verbatim.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// U16s writes a u16 count followed by the values.
func (w *Writer) U16s(vals []uint16) {
	w.U16(uint16(len(vals)))
	for _, v := range vals {
		w.U16(v)
	}
}
