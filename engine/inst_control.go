package engine

import (
	"fmt"
	"strings"

	"github.com/wippyai/jvm-runtime/classfile"
	"github.com/wippyai/jvm-runtime/errors"
)

type condition func(f *Frame) (bool, error)

func ifZero(test func(v int32) bool) condition {
	return func(f *Frame) (bool, error) {
		v, err := f.Stack.PopI32()
		return err == nil && test(v), err
	}
}

func ifCmp(test func(a, b int32) bool) condition {
	return func(f *Frame) (bool, error) {
		b, err := f.Stack.PopI32()
		if err != nil {
			return false, err
		}
		a, err := f.Stack.PopI32()
		return err == nil && test(a, b), err
	}
}

func ifRefCmp(equal bool) condition {
	return func(f *Frame) (bool, error) {
		b, err := f.Stack.PopRef()
		if err != nil {
			return false, err
		}
		a, err := f.Stack.PopRef()
		return err == nil && sameRef(a, b) == equal, err
	}
}

func ifNull(null bool) condition {
	return func(f *Frame) (bool, error) {
		v, err := f.Stack.PopRef()
		return err == nil && (v == nil) == null, err
	}
}

func always(*Frame) (bool, error) { return true, nil }

func registerControl(t *[256]func() Instruction) {
	branches := []struct {
		op   Opcode
		cond condition
	}{
		{OpIfeq, ifZero(func(v int32) bool { return v == 0 })},
		{OpIfne, ifZero(func(v int32) bool { return v != 0 })},
		{OpIflt, ifZero(func(v int32) bool { return v < 0 })},
		{OpIfge, ifZero(func(v int32) bool { return v >= 0 })},
		{OpIfgt, ifZero(func(v int32) bool { return v > 0 })},
		{OpIfle, ifZero(func(v int32) bool { return v <= 0 })},
		{OpIfIcmpeq, ifCmp(func(a, b int32) bool { return a == b })},
		{OpIfIcmpne, ifCmp(func(a, b int32) bool { return a != b })},
		{OpIfIcmplt, ifCmp(func(a, b int32) bool { return a < b })},
		{OpIfIcmpge, ifCmp(func(a, b int32) bool { return a >= b })},
		{OpIfIcmpgt, ifCmp(func(a, b int32) bool { return a > b })},
		{OpIfIcmple, ifCmp(func(a, b int32) bool { return a <= b })},
		{OpIfAcmpeq, ifRefCmp(true)},
		{OpIfAcmpne, ifRefCmp(false)},
		{OpIfnull, ifNull(true)},
		{OpIfnonnull, ifNull(false)},
		{OpGoto, always},
		{OpGotoW, always},
	}
	for _, b := range branches {
		t[b.op] = func() Instruction { return &branch{base: base{b.op}, cond: b.cond} }
	}

	t[OpTableswitch] = func() Instruction { return &tableSwitch{base: base{OpTableswitch}} }
	t[OpLookupswitch] = func() Instruction { return &lookupSwitch{base: base{OpLookupswitch}} }

	t[OpIreturn] = op0(OpIreturn, func(f *Frame) error {
		v, err := f.Stack.PopI32()
		if err == nil {
			f.Return(KindInt, I32Slot(v))
		}
		return err
	})
	t[OpLreturn] = op0(OpLreturn, func(f *Frame) error {
		v, err := f.Stack.PopI64()
		if err == nil {
			f.Return(KindLong, I64Slots(v)...)
		}
		return err
	})
	t[OpFreturn] = op0(OpFreturn, func(f *Frame) error {
		v, err := f.Stack.PopF32()
		if err == nil {
			f.Return(KindFloat, F32Slot(v))
		}
		return err
	})
	t[OpDreturn] = op0(OpDreturn, func(f *Frame) error {
		v, err := f.Stack.PopF64()
		if err == nil {
			f.Return(KindDouble, F64Slots(v)...)
		}
		return err
	})
	t[OpAreturn] = op0(OpAreturn, func(f *Frame) error {
		v, err := f.Stack.PopRef()
		if err == nil {
			f.Return(KindRef, RefSlot{Ref: v})
		}
		return err
	})
	t[OpReturn] = op0(OpReturn, func(f *Frame) error {
		f.Return(KindVoid)
		return nil
	})

	t[OpInvokestatic] = func() Instruction { return &invokeStatic{base: base{OpInvokestatic}} }

	// Monitors only matter with more than one thread.
	for _, op := range []Opcode{OpMonitorenter, OpMonitorexit} {
		t[op] = op0(op, func(f *Frame) error {
			r, err := f.Stack.PopRef()
			if err == nil && r == nil {
				err = errors.InvalidData(errors.PhaseRuntime, []string{op.String()}, "null reference")
			}
			return err
		})
	}
}

// branch is a conditional or unconditional jump relative to its own
// opcode. goto_w carries a 32-bit offset, the rest 16-bit.
type branch struct {
	base
	at     int
	offset int32
	cond   condition
}

func (i *branch) FetchOperands(r *BytecodeReader) error {
	i.at = r.PC() - 1
	if i.op == OpGotoW {
		v, err := r.ReadI32()
		i.offset = v
		return err
	}
	v, err := r.ReadI16()
	i.offset = int32(v)
	return err
}

func (i *branch) Execute(f *Frame) error {
	taken, err := i.cond(f)
	if err != nil {
		return err
	}
	if taken {
		f.Branch(i.offset)
	}
	return nil
}

func (i *branch) String() string { return fmt.Sprintf("%s %d", i.op, i.at+int(i.offset)) }

// tableSwitch jumps through a dense table indexed by key-low.
type tableSwitch struct {
	base
	at      int
	def     int32
	low     int32
	high    int32
	offsets []int32
}

func (i *tableSwitch) FetchOperands(r *BytecodeReader) error {
	i.at = r.PC() - 1
	if err := r.SkipPadding(); err != nil {
		return err
	}
	v, err := r.ReadI32s(3)
	if err != nil {
		return err
	}
	i.def, i.low, i.high = v[0], v[1], v[2]
	if i.high < i.low {
		return errors.InvalidData(errors.PhaseDecode, []string{"tableswitch"},
			fmt.Sprintf("high %d below low %d", i.high, i.low))
	}
	i.offsets, err = r.ReadI32s(int(int64(i.high) - int64(i.low) + 1))
	return err
}

func (i *tableSwitch) Execute(f *Frame) error {
	key, err := f.Stack.PopI32()
	if err != nil {
		return err
	}
	if key < i.low || key > i.high {
		f.Branch(i.def)
		return nil
	}
	f.Branch(i.offsets[int64(key)-int64(i.low)])
	return nil
}

func (i *tableSwitch) String() string {
	return fmt.Sprintf("tableswitch %d..%d default %d", i.low, i.high, i.at+int(i.def))
}

// lookupSwitch matches the key against sorted (match, offset) pairs.
type lookupSwitch struct {
	base
	at    int
	def   int32
	pairs []int32
}

func (i *lookupSwitch) FetchOperands(r *BytecodeReader) error {
	i.at = r.PC() - 1
	if err := r.SkipPadding(); err != nil {
		return err
	}
	v, err := r.ReadI32s(2)
	if err != nil {
		return err
	}
	i.def = v[0]
	if v[1] < 0 {
		return errors.InvalidData(errors.PhaseDecode, []string{"lookupswitch"},
			fmt.Sprintf("negative pair count %d", v[1]))
	}
	i.pairs, err = r.ReadI32s(int(v[1]) * 2)
	return err
}

func (i *lookupSwitch) Execute(f *Frame) error {
	key, err := f.Stack.PopI32()
	if err != nil {
		return err
	}
	for k := 0; k < len(i.pairs); k += 2 {
		if i.pairs[k] == key {
			f.Branch(i.pairs[k+1])
			return nil
		}
	}
	f.Branch(i.def)
	return nil
}

func (i *lookupSwitch) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lookupswitch default %d", i.at+int(i.def))
	for k := 0; k < len(i.pairs); k += 2 {
		fmt.Fprintf(&b, " %d:%d", i.pairs[k], i.at+int(i.pairs[k+1]))
	}
	return b.String()
}

// invokeStatic pops the arguments of a static method and hands the call
// to the interpreter, which resolves and runs it in a new frame.
type invokeStatic struct {
	base
	index uint16
}

func (i *invokeStatic) FetchOperands(r *BytecodeReader) (err error) {
	i.index, err = r.ReadU16()
	return err
}

func (i *invokeStatic) Execute(f *Frame) error {
	c, err := f.constant(i.index)
	if err != nil {
		return err
	}
	var classIndex, natIndex uint16
	switch c := c.(type) {
	case *classfile.ConstantMethodRef:
		classIndex, natIndex = c.ClassIndex, c.NameAndTypeIndex
	case *classfile.ConstantInterfaceMethodRef:
		classIndex, natIndex = c.ClassIndex, c.NameAndTypeIndex
	default:
		return errors.TypeMismatch(errors.PhaseRuntime,
			[]string{fmt.Sprintf("constant_pool[%d]", i.index)}, "Methodref", c.Tag().String())
	}

	pool := f.Pool()
	class, err := pool.ClassName(int(classIndex))
	if err != nil {
		return err
	}
	name, descriptor, err := pool.NameAndType(int(natIndex))
	if err != nil {
		return err
	}
	desc, err := classfile.ParseMethodDescriptor(descriptor)
	if err != nil {
		return err
	}

	args, err := f.Stack.popSlots(desc.ArgSlots())
	if err != nil {
		return err
	}
	f.call = &pendingCall{class: class, name: name, descriptor: descriptor, args: args}
	return nil
}

func (i *invokeStatic) String() string { return fmt.Sprintf("invokestatic #%d", i.index) }

// popSlots removes the top n slots and returns them bottom first.
func (s *OperandStack) popSlots(n int) ([]Slot, error) {
	if err := s.require(n); err != nil {
		return nil, err
	}
	out := append([]Slot(nil), s.slots[s.size-n:s.size]...)
	s.drop(n)
	return out, nil
}
