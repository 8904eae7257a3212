package engine

import (
	"fmt"
	"math"

	"github.com/wippyai/jvm-runtime/errors"
)

// LocalVars is the fixed-size local variable array of a frame.
type LocalVars struct {
	slots []Slot
}

// NewLocalVars allocates n unset slots.
func NewLocalVars(n int) *LocalVars {
	return &LocalVars{slots: make([]Slot, n)}
}

// Len returns max_locals.
func (l *LocalVars) Len() int {
	return len(l.slots)
}

// Slots returns a copy of the slots.
func (l *LocalVars) Slots() []Slot {
	return append([]Slot(nil), l.slots...)
}

func (l *LocalVars) check(index, width int) error {
	if index < 0 || index+width > len(l.slots) {
		return errors.LocalIndexOutOfRange(index+width-1, len(l.slots))
	}
	return nil
}

func (l *LocalVars) numeric(index int) (uint32, error) {
	switch s := l.slots[index].(type) {
	case nil:
		return 0, nil
	case Numeric:
		return uint32(s), nil
	default:
		return 0, errors.TypeMismatch(errors.PhaseRuntime, []string{fmt.Sprintf("local[%d]", index)}, "numeric", "reference")
	}
}

// SetSlot stores a raw slot.
func (l *LocalVars) SetSlot(index int, s Slot) error {
	if err := l.check(index, 1); err != nil {
		return err
	}
	l.slots[index] = s
	return nil
}

// GetSlot returns a raw slot.
func (l *LocalVars) GetSlot(index int) (Slot, error) {
	if err := l.check(index, 1); err != nil {
		return nil, err
	}
	return l.slots[index], nil
}

// SetI32 stores an int in one slot.
func (l *LocalVars) SetI32(index int, v int32) error {
	return l.SetSlot(index, Numeric(uint32(v)))
}

// GetI32 reads an int. An unset slot reads as zero.
func (l *LocalVars) GetI32(index int) (int32, error) {
	if err := l.check(index, 1); err != nil {
		return 0, err
	}
	v, err := l.numeric(index)
	return int32(v), err
}

// SetF32 stores the bits of a float in one slot.
func (l *LocalVars) SetF32(index int, v float32) error {
	return l.SetSlot(index, Numeric(math.Float32bits(v)))
}

// GetF32 reads a float.
func (l *LocalVars) GetF32(index int) (float32, error) {
	if err := l.check(index, 1); err != nil {
		return 0, err
	}
	v, err := l.numeric(index)
	return math.Float32frombits(v), err
}

// setU64 stores the high half at index and the low half at index+1.
func (l *LocalVars) setU64(index int, v uint64) error {
	if err := l.check(index, 2); err != nil {
		return err
	}
	l.slots[index], l.slots[index+1] = splitU64(v)
	return nil
}

func (l *LocalVars) getU64(index int) (uint64, error) {
	if err := l.check(index, 2); err != nil {
		return 0, err
	}
	hi, err := l.numeric(index)
	if err != nil {
		return 0, err
	}
	lo, err := l.numeric(index + 1)
	if err != nil {
		return 0, err
	}
	return joinU64(hi, lo), nil
}

// SetI64 stores a long in two slots, high half at index.
func (l *LocalVars) SetI64(index int, v int64) error { return l.setU64(index, uint64(v)) }

// GetI64 reads a long from index (high half) and index+1 (low half).
func (l *LocalVars) GetI64(index int) (int64, error) {
	v, err := l.getU64(index)
	return int64(v), err
}

// SetF64 stores the bits of a double in two slots, high half at index.
func (l *LocalVars) SetF64(index int, v float64) error { return l.setU64(index, math.Float64bits(v)) }

// GetF64 reads a double from index (high half) and index+1 (low half).
func (l *LocalVars) GetF64(index int) (float64, error) {
	v, err := l.getU64(index)
	return math.Float64frombits(v), err
}

// SetRef stores a reference; nil is the null reference.
func (l *LocalVars) SetRef(index int, r Reference) error {
	return l.SetSlot(index, RefSlot{Ref: r})
}

// GetRef reads a reference. An unset slot reads as null and a numeric
// slot is a type mismatch.
func (l *LocalVars) GetRef(index int) (Reference, error) {
	if err := l.check(index, 1); err != nil {
		return nil, err
	}
	switch s := l.slots[index].(type) {
	case nil:
		return nil, nil
	case RefSlot:
		return s.Ref, nil
	default:
		return nil, errors.TypeMismatch(errors.PhaseRuntime, []string{fmt.Sprintf("local[%d]", index)}, "reference", "numeric")
	}
}
