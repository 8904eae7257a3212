package engine

import (
	"fmt"
	"math"
	"reflect"
)

// Slot is one local variable or operand stack cell. It holds either a
// Numeric or a RefSlot; a nil Slot is an unset cell that reads as zero or
// as the null reference.
type Slot interface {
	isSlot()
}

// Numeric is a 32-bit numeric payload. long and double values use two
// Numeric slots, high half first.
type Numeric uint32

func (Numeric) isSlot() {}

// Reference is an opaque object handle. nil is the null reference.
type Reference any

// RefSlot holds a reference.
type RefSlot struct {
	Ref Reference
}

func (RefSlot) isSlot() {}

// ValueKind is the type of a value produced by a method.
type ValueKind uint8

const (
	KindVoid ValueKind = iota
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindRef
)

var valueKindNames = [...]string{"void", "int", "long", "float", "double", "reference"}

func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return fmt.Sprintf("ValueKind(%d)", k)
}

// Width returns the number of slots a value of kind k occupies.
func (k ValueKind) Width() int {
	switch k {
	case KindVoid:
		return 0
	case KindLong, KindDouble:
		return 2
	}
	return 1
}

// splitU64 returns the high and low halves of v.
func splitU64(v uint64) (hi, lo Numeric) {
	return Numeric(uint32(v >> 32)), Numeric(uint32(v))
}

func joinU64(hi, lo uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}

// I32Slot, I64Slots, F32Slot and F64Slots build slots holding the given
// values.
func I32Slot(v int32) Slot { return Numeric(uint32(v)) }

func I64Slots(v int64) []Slot {
	hi, lo := splitU64(uint64(v))
	return []Slot{hi, lo}
}

func F32Slot(v float32) Slot { return Numeric(math.Float32bits(v)) }

func F64Slots(v float64) []Slot {
	hi, lo := splitU64(math.Float64bits(v))
	return []Slot{hi, lo}
}

// sameRef compares two references by identity. References of different
// or incomparable dynamic types are never equal.
func sameRef(a, b Reference) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}

func describeSlot(s Slot) string {
	switch s := s.(type) {
	case nil:
		return "-"
	case Numeric:
		return fmt.Sprintf("%d", int32(s))
	case RefSlot:
		if s.Ref == nil {
			return "null"
		}
		return fmt.Sprintf("ref(%v)", s.Ref)
	}
	return "?"
}
