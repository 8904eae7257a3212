package engine

// stackShuffles gives each stack instruction as the number of slots it
// pops and the popped slots it pushes back, bottom first, where 0 is the
// slot that was on top.
var stackShuffles = []struct {
	op    Opcode
	pop   int
	order []int
}{
	{OpPop, 1, nil},
	{OpPop2, 2, nil},
	{OpDup, 1, []int{0, 0}},
	{OpDupX1, 2, []int{0, 1, 0}},
	{OpDupX2, 3, []int{0, 2, 1, 0}},
	{OpDup2, 2, []int{1, 0, 1, 0}},
	{OpDup2X1, 3, []int{1, 0, 2, 1, 0}},
	{OpDup2X2, 4, []int{1, 0, 3, 2, 1, 0}},
	{OpSwap, 2, []int{0, 1}},
}

func registerStack(t *[256]func() Instruction) {
	for _, s := range stackShuffles {
		t[s.op] = op0(s.op, func(f *Frame) error { return f.Stack.shuffle(s.pop, s.order) })
	}
}

// shuffle pops n slots and pushes them back in the given order. The stack
// is left untouched on error.
func (s *OperandStack) shuffle(n int, order []int) error {
	if err := s.require(n); err != nil {
		return err
	}
	if grow := len(order) - n; grow > 0 {
		if err := s.reserve(grow); err != nil {
			return err
		}
	}
	var popped [4]Slot
	for i := range n {
		popped[i] = s.slots[s.size-1-i]
	}
	s.drop(n)
	for _, k := range order {
		s.slots[s.size] = popped[k]
		s.size++
	}
	return nil
}
