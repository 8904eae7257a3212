package engine

import (
	"fmt"

	"github.com/wippyai/jvm-runtime/classfile"
	"github.com/wippyai/jvm-runtime/errors"
)

func registerConstants(t *[256]func() Instruction) {
	t[OpNop] = op0(OpNop, func(*Frame) error { return nil })
	t[OpAConstNull] = op0(OpAConstNull, func(f *Frame) error { return f.Stack.PushRef(nil) })

	for v := int32(-1); v <= 5; v++ {
		op := OpIConstM1 + Opcode(v+1)
		t[op] = op0(op, func(f *Frame) error { return f.Stack.PushI32(v) })
	}
	for v := range int64(2) {
		op := OpLConst0 + Opcode(v)
		t[op] = op0(op, func(f *Frame) error { return f.Stack.PushI64(v) })
	}
	for v := range 3 {
		op := OpFConst0 + Opcode(v)
		t[op] = op0(op, func(f *Frame) error { return f.Stack.PushF32(float32(v)) })
	}
	for v := range 2 {
		op := OpDConst0 + Opcode(v)
		t[op] = op0(op, func(f *Frame) error { return f.Stack.PushF64(float64(v)) })
	}

	t[OpBipush] = func() Instruction { return &pushImmediate{base: base{OpBipush}} }
	t[OpSipush] = func() Instruction { return &pushImmediate{base: base{OpSipush}} }
	t[OpLdc] = func() Instruction { return &ldc{base: base{OpLdc}} }
	t[OpLdcW] = func() Instruction { return &ldc{base: base{OpLdcW}} }
	t[OpLdc2W] = func() Instruction { return &ldc{base: base{OpLdc2W}} }
}

// pushImmediate is bipush or sipush.
type pushImmediate struct {
	base
	value int32
}

func (i *pushImmediate) FetchOperands(r *BytecodeReader) error {
	if i.op == OpBipush {
		v, err := r.ReadI8()
		i.value = int32(v)
		return err
	}
	v, err := r.ReadI16()
	i.value = int32(v)
	return err
}

func (i *pushImmediate) Execute(f *Frame) error { return f.Stack.PushI32(i.value) }

func (i *pushImmediate) String() string { return fmt.Sprintf("%s %d", i.op, i.value) }

// ldc pushes a constant pool entry. ldc2_w takes Long and Double; ldc and
// ldc_w take Integer, Float and String. Strings are pushed as Go string
// references.
type ldc struct {
	base
	index uint16
}

func (i *ldc) FetchOperands(r *BytecodeReader) (err error) {
	if i.op == OpLdc {
		var v uint8
		v, err = r.ReadU8()
		i.index = uint16(v)
		return err
	}
	i.index, err = r.ReadU16()
	return err
}

func (i *ldc) Execute(f *Frame) error {
	c, err := f.constant(i.index)
	if err != nil {
		return err
	}
	wide := i.op == OpLdc2W
	switch c := c.(type) {
	case *classfile.ConstantInteger:
		if !wide {
			return f.Stack.PushI32(c.Value)
		}
	case *classfile.ConstantFloat:
		if !wide {
			return f.Stack.PushF32(c.Value)
		}
	case *classfile.ConstantString:
		if !wide {
			s, err := f.Pool().UTF8(int(c.StringIndex))
			if err != nil {
				return err
			}
			return f.Stack.PushRef(s)
		}
	case *classfile.ConstantLong:
		if wide {
			return f.Stack.PushI64(c.Value)
		}
	case *classfile.ConstantDouble:
		if wide {
			return f.Stack.PushF64(c.Value)
		}
	case *classfile.ConstantClass, *classfile.ConstantMethodType, *classfile.ConstantMethodHandle:
		return errors.Unsupported(errors.PhaseRuntime, fmt.Sprintf("%s of a %s constant", i.op, c.Tag()))
	}
	return errors.TypeMismatch(errors.PhaseRuntime,
		[]string{fmt.Sprintf("constant_pool[%d]", i.index)}, "loadable constant for "+i.op.String(), c.Tag().String())
}

func (i *ldc) String() string { return fmt.Sprintf("%s #%d", i.op, i.index) }
