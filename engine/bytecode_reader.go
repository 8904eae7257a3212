package engine

import (
	"github.com/wippyai/jvm-runtime/errors"
	"github.com/wippyai/jvm-runtime/internal/binary"
)

// BytecodeReader reads opcodes and operands from a method's code.
type BytecodeReader struct {
	r *binary.Reader
}

// NewBytecodeReader returns a reader positioned at offset 0.
func NewBytecodeReader(code []byte) *BytecodeReader {
	return &BytecodeReader{r: binary.NewReader(code)}
}

// Reset switches to new code and rewinds.
func (b *BytecodeReader) Reset(code []byte) {
	b.r = binary.NewReader(code)
}

// PC returns the current offset.
func (b *BytecodeReader) PC() int { return b.r.Position() }

// SetPC moves to offset pc, which may equal the code length.
func (b *BytecodeReader) SetPC(pc int) error { return b.r.SetPosition(pc) }

// Done reports whether the end of the code has been reached.
func (b *BytecodeReader) Done() bool { return b.r.Len() == 0 }

func (b *BytecodeReader) ReadU8() (uint8, error) { return b.r.ReadU8() }

func (b *BytecodeReader) ReadI8() (int8, error) {
	v, err := b.r.ReadU8()
	return int8(v), err
}

func (b *BytecodeReader) ReadU16() (uint16, error) { return b.r.ReadU16() }

func (b *BytecodeReader) ReadI16() (int16, error) {
	v, err := b.r.ReadU16()
	return int16(v), err
}

func (b *BytecodeReader) ReadI32() (int32, error) {
	v, err := b.r.ReadU32()
	return int32(v), err
}

// ReadI32s reads n big-endian int32 values. The remaining code must hold
// all of them before anything is allocated.
func (b *BytecodeReader) ReadI32s(n int) ([]int32, error) {
	if n < 0 || n > b.r.Len()/4 {
		return nil, errors.Truncated(b.r.Position(), n*4, b.r.Len())
	}
	out := make([]int32, n)
	for i := range out {
		v, err := b.ReadI32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// SkipPadding advances to the next offset that is a multiple of four, as
// required before tableswitch and lookupswitch operands.
func (b *BytecodeReader) SkipPadding() error {
	pad := (4 - b.r.Position()%4) % 4
	_, err := b.r.ReadBytes(pad)
	return err
}
