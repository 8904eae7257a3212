package engine

import (
	"math"

	"github.com/wippyai/jvm-runtime/errors"
)

const operandStack = "operand stack"

// OperandStack is a frame's bounded operand stack. Pushes grow it toward
// its capacity and pops shrink it, for numeric and reference values alike.
type OperandStack struct {
	slots []Slot
	size  int
}

// NewOperandStack allocates a stack of max_stack slots.
func NewOperandStack(capacity int) *OperandStack {
	return &OperandStack{slots: make([]Slot, capacity)}
}

// Len returns the number of occupied slots.
func (s *OperandStack) Len() int { return s.size }

// Cap returns max_stack.
func (s *OperandStack) Cap() int { return len(s.slots) }

// Snapshot returns the occupied slots, bottom first.
func (s *OperandStack) Snapshot() []Slot {
	return append([]Slot(nil), s.slots[:s.size]...)
}

func (s *OperandStack) reserve(n int) error {
	if s.size+n > len(s.slots) {
		return errors.StackOverflow(operandStack, len(s.slots))
	}
	return nil
}

func (s *OperandStack) require(n int) error {
	if s.size < n {
		return errors.StackUnderflow(operandStack)
	}
	return nil
}

// PushSlot pushes a raw slot.
func (s *OperandStack) PushSlot(v Slot) error {
	if err := s.reserve(1); err != nil {
		return err
	}
	s.slots[s.size] = v
	s.size++
	return nil
}

// PopSlot pops a raw slot.
func (s *OperandStack) PopSlot() (Slot, error) {
	if err := s.require(1); err != nil {
		return nil, err
	}
	v := s.slots[s.size-1]
	s.drop(1)
	return v, nil
}

// PeekSlot returns the slot depth positions below the top without
// removing it; depth 0 is the top.
func (s *OperandStack) PeekSlot(depth int) (Slot, error) {
	if err := s.require(depth + 1); err != nil {
		return nil, err
	}
	return s.slots[s.size-1-depth], nil
}

// numericAt type-checks slot i without popping it.
func (s *OperandStack) numericAt(i int) (uint32, error) {
	switch v := s.slots[i].(type) {
	case nil:
		return 0, nil
	case Numeric:
		return uint32(v), nil
	default:
		return 0, errors.TypeMismatch(errors.PhaseRuntime, []string{operandStack}, "numeric", "reference")
	}
}

// drop removes n slots that have already been checked.
func (s *OperandStack) drop(n int) {
	for range n {
		s.size--
		s.slots[s.size] = nil
	}
}

func (s *OperandStack) popNumeric() (uint32, error) {
	if err := s.require(1); err != nil {
		return 0, err
	}
	v, err := s.numericAt(s.size - 1)
	if err != nil {
		return 0, err
	}
	s.drop(1)
	return v, nil
}

// PushI32 pushes an int.
func (s *OperandStack) PushI32(v int32) error { return s.PushSlot(Numeric(uint32(v))) }

// PopI32 pops an int.
func (s *OperandStack) PopI32() (int32, error) {
	v, err := s.popNumeric()
	return int32(v), err
}

// PushF32 pushes the bits of a float.
func (s *OperandStack) PushF32(v float32) error { return s.PushSlot(Numeric(math.Float32bits(v))) }

// PopF32 pops a float.
func (s *OperandStack) PopF32() (float32, error) {
	v, err := s.popNumeric()
	return math.Float32frombits(v), err
}

// pushU64 pushes the high half then the low half; both or neither land.
func (s *OperandStack) pushU64(v uint64) error {
	if err := s.reserve(2); err != nil {
		return err
	}
	s.slots[s.size], s.slots[s.size+1] = splitU64(v)
	s.size += 2
	return nil
}

func (s *OperandStack) popU64() (uint64, error) {
	if err := s.require(2); err != nil {
		return 0, err
	}
	hi, err := s.numericAt(s.size - 2)
	if err != nil {
		return 0, err
	}
	lo, err := s.numericAt(s.size - 1)
	if err != nil {
		return 0, err
	}
	s.drop(2)
	return joinU64(hi, lo), nil
}

// PushI64 pushes a long as two slots, high half first.
func (s *OperandStack) PushI64(v int64) error { return s.pushU64(uint64(v)) }

// PopI64 pops a long whose low half is on top.
func (s *OperandStack) PopI64() (int64, error) {
	v, err := s.popU64()
	return int64(v), err
}

// PushF64 pushes the bits of a double as two slots, high half first.
func (s *OperandStack) PushF64(v float64) error { return s.pushU64(math.Float64bits(v)) }

// PopF64 pops a double whose low half is on top.
func (s *OperandStack) PopF64() (float64, error) {
	v, err := s.popU64()
	return math.Float64frombits(v), err
}

// PushRef pushes a reference; nil is the null reference.
func (s *OperandStack) PushRef(r Reference) error { return s.PushSlot(RefSlot{Ref: r}) }

// PopRef pops a reference. A numeric top slot is a type mismatch and is
// left in place.
func (s *OperandStack) PopRef() (Reference, error) {
	if err := s.require(1); err != nil {
		return nil, err
	}
	var r Reference
	switch v := s.slots[s.size-1].(type) {
	case nil:
	case RefSlot:
		r = v.Ref
	default:
		return nil, errors.TypeMismatch(errors.PhaseRuntime, []string{operandStack}, "reference", "numeric")
	}
	s.drop(1)
	return r, nil
}
