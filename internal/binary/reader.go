// Package binary implements the big-endian byte cursor and writer shared by
// the class file decoder, the class file encoder and the bytecode reader.
package binary

import (
	"github.com/wippyai/jvm-runtime/errors"
)

// Reader is a cursor over an owned byte buffer. Every read advances the
// cursor; a read that would run past the end fails and leaves the cursor
// where it was.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte offset.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// Size returns the total size of the underlying buffer.
func (r *Reader) Size() int {
	return len(r.data)
}

// SetPosition moves the cursor. pos may equal Size (end of buffer).
func (r *Reader) SetPosition(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return errors.New(errors.PhaseDecode, errors.KindTruncatedInput).
			Detail("seek to %d outside buffer of %d bytes", pos, len(r.data)).
			Value(pos).
			Build()
	}
	r.pos = pos
	return nil
}

func (r *Reader) need(n int) error {
	if n < 0 || r.Len() < n {
		return errors.Truncated(r.pos, n, r.Len())
	}
	return nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadU16 reads a big-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	d := r.data[r.pos:]
	v := uint16(d[0])<<8 | uint16(d[1])
	r.pos += 2
	return v, nil
}

// ReadU32 reads a big-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	d := r.data[r.pos:]
	v := uint32(d[0])<<24 | uint32(d[1])<<16 | uint32(d[2])<<8 | uint32(d[3])
	r.pos += 4
	return v, nil
}

// ReadU64 reads a big-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	var v uint64
	for _, b := range r.data[r.pos : r.pos+8] {
		v = v<<8 | uint64(b)
	}
	r.pos += 8
	return v, nil
}

// ReadBytes reads exactly n bytes. The result is a copy.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	copy(buf, r.data[r.pos:r.pos+n])
	r.pos += n
	return buf, nil
}

// ReadU16s reads a u16 count followed by that many u16 values.
func (r *Reader) ReadU16s() ([]uint16, error) {
	n, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if err := r.need(int(n) * 2); err != nil {
		r.pos -= 2
		return nil, err
	}
	vals := make([]uint16, n)
	for i := range vals {
		vals[i], _ = r.ReadU16()
	}
	return vals, nil
}

// Sub consumes the next n bytes and returns an independent Reader over them.
func (r *Reader) Sub(n int) (*Reader, error) {
	data, err := r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return NewReader(data), nil
}
