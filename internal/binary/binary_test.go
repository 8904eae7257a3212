package binary

import (
	"bytes"
	"errors"
	"testing"

	jerrors "github.com/wippyai/jvm-runtime/errors"
)

var truncated = &jerrors.Error{Phase: jerrors.PhaseDecode, Kind: jerrors.KindTruncatedInput}

func TestReaderReadU8(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}
	r := NewReader(data)

	for i, want := range data {
		if r.Position() != i {
			t.Errorf("position before read %d: got %d, want %d", i, r.Position(), i)
		}
		b, err := r.ReadU8()
		if err != nil {
			t.Fatalf("ReadU8 %d: %v", i, err)
		}
		if b != want {
			t.Errorf("ReadU8 %d: got 0x%02x, want 0x%02x", i, b, want)
		}
	}

	if r.Len() != 0 {
		t.Errorf("remaining: got %d, want 0", r.Len())
	}

	_, err := r.ReadU8()
	if !errors.Is(err, truncated) {
		t.Errorf("expected truncated input, got %v", err)
	}
}

func TestReaderBigEndian(t *testing.T) {
	data := []byte{
		0xCA, 0xFE,
		0xBA, 0xBE, 0x00, 0x34,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
	}
	r := NewReader(data)

	u16, err := r.ReadU16()
	if err != nil || u16 != 0xCAFE {
		t.Fatalf("ReadU16: got 0x%04x, %v", u16, err)
	}
	u32, err := r.ReadU32()
	if err != nil || u32 != 0xBABE0034 {
		t.Fatalf("ReadU32: got 0x%08x, %v", u32, err)
	}
	u64, err := r.ReadU64()
	if err != nil || u64 != 0x0102030405060708 {
		t.Fatalf("ReadU64: got 0x%016x, %v", u64, err)
	}
}

func TestReaderShortReadLeavesCursor(t *testing.T) {
	tests := []struct {
		name string
		read func(r *Reader) error
	}{
		{"u16", func(r *Reader) error { _, err := r.ReadU16(); return err }},
		{"u32", func(r *Reader) error { _, err := r.ReadU32(); return err }},
		{"u64", func(r *Reader) error { _, err := r.ReadU64(); return err }},
		{"bytes", func(r *Reader) error { _, err := r.ReadBytes(2); return err }},
		{"negative bytes", func(r *Reader) error { _, err := r.ReadBytes(-1); return err }},
		{"sub", func(r *Reader) error { _, err := r.Sub(9); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader([]byte{0xAA})
			err := tt.read(r)
			if !errors.Is(err, truncated) {
				t.Fatalf("expected truncated input, got %v", err)
			}
			if r.Position() != 0 {
				t.Errorf("cursor moved to %d on failed read", r.Position())
			}
		})
	}
}

func TestReaderReadBytesCopies(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	r := NewReader(data)

	got, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("ReadBytes: got %v", got)
	}
	got[0] = 0xFF
	if data[0] != 0x01 {
		t.Error("ReadBytes returned a view into the source buffer")
	}
}

func TestReaderReadU16s(t *testing.T) {
	r := NewReader([]byte{0x00, 0x03, 0x00, 0x01, 0x00, 0x02, 0xFF, 0xFF})
	vals, err := r.ReadU16s()
	if err != nil {
		t.Fatalf("ReadU16s: %v", err)
	}
	want := []uint16{1, 2, 0xFFFF}
	if len(vals) != len(want) {
		t.Fatalf("got %v, want %v", vals, want)
	}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("vals[%d] = %d, want %d", i, vals[i], want[i])
		}
	}

	short := NewReader([]byte{0x00, 0x02, 0x00, 0x01})
	if _, err := short.ReadU16s(); !errors.Is(err, truncated) {
		t.Errorf("expected truncated input, got %v", err)
	}
	if short.Position() != 0 {
		t.Errorf("cursor moved to %d on failed read", short.Position())
	}
}

func TestReaderSub(t *testing.T) {
	r := NewReader([]byte{0x00, 0x07, 0x09, 0x0A})
	if _, err := r.ReadU8(); err != nil {
		t.Fatal(err)
	}
	sub, err := r.Sub(2)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if sub.Size() != 2 || sub.Position() != 0 {
		t.Errorf("sub size=%d pos=%d", sub.Size(), sub.Position())
	}
	v, err := sub.ReadU16()
	if err != nil || v != 0x0709 {
		t.Errorf("sub ReadU16: got 0x%04x, %v", v, err)
	}
	if _, err := sub.ReadU8(); !errors.Is(err, truncated) {
		t.Error("sub reader must not see past its slice")
	}
	if r.Position() != 3 {
		t.Errorf("parent position: got %d, want 3", r.Position())
	}
}

func TestReaderSetPosition(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	if err := r.SetPosition(3); err != nil {
		t.Errorf("seek to end: %v", err)
	}
	if err := r.SetPosition(4); err == nil {
		t.Error("expected error seeking past end")
	}
	if err := r.SetPosition(-1); err == nil {
		t.Error("expected error seeking before start")
	}
	if err := r.SetPosition(1); err != nil {
		t.Fatal(err)
	}
	b, _ := r.ReadU8()
	if b != 2 {
		t.Errorf("after seek got %d, want 2", b)
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.U8(0x7F)
	w.U16(0xCAFE)
	w.U32(0xDEADBEEF)
	w.U64(0x0123456789ABCDEF)
	w.U16s([]uint16{10, 20})
	w.WriteBytes([]byte("hi"))

	if w.Len() != 1+2+4+8+2+4+2 {
		t.Fatalf("Len = %d", w.Len())
	}

	r := NewReader(w.Bytes())
	u8, _ := r.ReadU8()
	u16, _ := r.ReadU16()
	u32, _ := r.ReadU32()
	u64, _ := r.ReadU64()
	vals, _ := r.ReadU16s()
	tail, err := r.ReadBytes(2)
	if err != nil {
		t.Fatal(err)
	}

	if u8 != 0x7F || u16 != 0xCAFE || u32 != 0xDEADBEEF || u64 != 0x0123456789ABCDEF {
		t.Errorf("scalars: %x %x %x %x", u8, u16, u32, u64)
	}
	if len(vals) != 2 || vals[0] != 10 || vals[1] != 20 {
		t.Errorf("u16s: %v", vals)
	}
	if string(tail) != "hi" {
		t.Errorf("tail: %q", tail)
	}
	if r.Len() != 0 {
		t.Errorf("%d bytes left over", r.Len())
	}
}
