package engine

import (
	"fmt"

	"github.com/wippyai/jvm-runtime/errors"
)

// localAccess moves one value between the local at index and the operand
// stack.
type localAccess func(f *Frame, index int) error

func loadI32(f *Frame, index int) error {
	v, err := f.Locals.GetI32(index)
	if err != nil {
		return err
	}
	return f.Stack.PushI32(v)
}

func loadI64(f *Frame, index int) error {
	v, err := f.Locals.GetI64(index)
	if err != nil {
		return err
	}
	return f.Stack.PushI64(v)
}

func loadF32(f *Frame, index int) error {
	v, err := f.Locals.GetF32(index)
	if err != nil {
		return err
	}
	return f.Stack.PushF32(v)
}

func loadF64(f *Frame, index int) error {
	v, err := f.Locals.GetF64(index)
	if err != nil {
		return err
	}
	return f.Stack.PushF64(v)
}

func loadRef(f *Frame, index int) error {
	v, err := f.Locals.GetRef(index)
	if err != nil {
		return err
	}
	return f.Stack.PushRef(v)
}

func storeI32(f *Frame, index int) error {
	v, err := f.Stack.PopI32()
	if err != nil {
		return err
	}
	return f.Locals.SetI32(index, v)
}

func storeI64(f *Frame, index int) error {
	v, err := f.Stack.PopI64()
	if err != nil {
		return err
	}
	return f.Locals.SetI64(index, v)
}

func storeF32(f *Frame, index int) error {
	v, err := f.Stack.PopF32()
	if err != nil {
		return err
	}
	return f.Locals.SetF32(index, v)
}

func storeF64(f *Frame, index int) error {
	v, err := f.Stack.PopF64()
	if err != nil {
		return err
	}
	return f.Locals.SetF64(index, v)
}

func storeRef(f *Frame, index int) error {
	v, err := f.Stack.PopRef()
	if err != nil {
		return err
	}
	return f.Locals.SetRef(index, v)
}

// localFamily describes one of the ten load/store families: the explicit
// form, its first implicit _0 form and the access it performs.
type localFamily struct {
	explicit Opcode
	implicit Opcode
	access   localAccess
}

var localFamilies = []localFamily{
	{OpIload, OpIload0, loadI32},
	{OpLload, OpLload0, loadI64},
	{OpFload, OpFload0, loadF32},
	{OpDload, OpDload0, loadF64},
	{OpAload, OpAload0, loadRef},
	{OpIstore, OpIstore0, storeI32},
	{OpLstore, OpLstore0, storeI64},
	{OpFstore, OpFstore0, storeF32},
	{OpDstore, OpDstore0, storeF64},
	{OpAstore, OpAstore0, storeRef},
}

func localAccessFor(op Opcode) (localAccess, bool) {
	for _, fam := range localFamilies {
		if fam.explicit == op {
			return fam.access, true
		}
	}
	return nil, false
}

func registerLocals(t *[256]func() Instruction) {
	for _, fam := range localFamilies {
		t[fam.explicit] = func() Instruction {
			return &localInstruction{base: base{fam.explicit}, access: fam.access}
		}
		for n := range 4 {
			op := fam.implicit + Opcode(n)
			t[op] = op0(op, func(f *Frame) error { return fam.access(f, n) })
		}
	}
	t[OpIinc] = func() Instruction { return &iinc{base: base{OpIinc}} }
	t[OpWide] = func() Instruction { return &wide{base: base{OpWide}} }
}

// localInstruction is a load or store with an explicit u8 index.
type localInstruction struct {
	base
	index  uint16
	access localAccess
}

func (i *localInstruction) FetchOperands(r *BytecodeReader) error {
	v, err := r.ReadU8()
	i.index = uint16(v)
	return err
}

func (i *localInstruction) Execute(f *Frame) error { return i.access(f, int(i.index)) }

func (i *localInstruction) String() string { return fmt.Sprintf("%s %d", i.op, i.index) }

// iinc adds a signed constant to an int local.
type iinc struct {
	base
	index uint16
	delta int16
}

func (i *iinc) FetchOperands(r *BytecodeReader) error {
	index, err := r.ReadU8()
	if err != nil {
		return err
	}
	delta, err := r.ReadI8()
	i.index, i.delta = uint16(index), int16(delta)
	return err
}

func (i *iinc) Execute(f *Frame) error {
	v, err := f.Locals.GetI32(int(i.index))
	if err != nil {
		return err
	}
	return f.Locals.SetI32(int(i.index), v+int32(i.delta))
}

func (i *iinc) String() string { return fmt.Sprintf("iinc %d %d", i.index, i.delta) }

// wide widens the local index of the following load, store or iinc to
// u16 (and the iinc constant to i16).
type wide struct {
	base
	target Opcode
	index  uint16
	delta  int16
	access localAccess
}

func (i *wide) FetchOperands(r *BytecodeReader) (err error) {
	op, err := r.ReadU8()
	if err != nil {
		return err
	}
	i.target = Opcode(op)
	if i.index, err = r.ReadU16(); err != nil {
		return err
	}

	if i.target == OpIinc {
		i.delta, err = r.ReadI16()
		return err
	}
	if access, ok := localAccessFor(i.target); ok {
		i.access = access
		return nil
	}
	if i.target == OpRet {
		return errors.Unsupported(errors.PhaseRuntime, "wide ret")
	}
	return errors.InvalidData(errors.PhaseDecode, []string{"wide"}, "cannot widen "+i.target.String())
}

func (i *wide) Execute(f *Frame) error {
	if i.target == OpIinc {
		v, err := f.Locals.GetI32(int(i.index))
		if err != nil {
			return err
		}
		return f.Locals.SetI32(int(i.index), v+int32(i.delta))
	}
	return i.access(f, int(i.index))
}

func (i *wide) String() string {
	if i.target == OpIinc {
		return fmt.Sprintf("wide iinc %d %d", i.index, i.delta)
	}
	return fmt.Sprintf("wide %s %d", i.target, i.index)
}
