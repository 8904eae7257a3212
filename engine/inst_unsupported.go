package engine

import (
	"fmt"

	"github.com/wippyai/jvm-runtime/errors"
)

// unsupported decodes the operands of an instruction that needs a heap,
// fields, virtual dispatch or exceptions, so that code using it can still
// be disassembled. Executing it fails.
type unsupported struct {
	base
	width    int
	cpIndex  bool
	operands []byte
}

func (i *unsupported) FetchOperands(r *BytecodeReader) error {
	operands := make([]byte, i.width)
	for k := range operands {
		b, err := r.ReadU8()
		if err != nil {
			return err
		}
		operands[k] = b
	}
	i.operands = operands
	return nil
}

func (i *unsupported) Execute(*Frame) error {
	return errors.Unsupported(errors.PhaseRuntime, i.op.String())
}

func (i *unsupported) String() string {
	if len(i.operands) == 0 {
		return i.op.String()
	}
	if i.cpIndex {
		s := fmt.Sprintf("%s #%d", i.op, uint16(i.operands[0])<<8|uint16(i.operands[1]))
		if i.op == OpMultianewarray {
			s += fmt.Sprintf(" dim %d", i.operands[2])
		}
		return s
	}
	return fmt.Sprintf("%s %x", i.op, i.operands)
}

func registerUnsupported(t *[256]func() Instruction) {
	add := func(width int, cpIndex bool, ops ...Opcode) {
		for _, op := range ops {
			t[op] = func() Instruction { return &unsupported{base: base{op}, width: width, cpIndex: cpIndex} }
		}
	}
	for op := OpIaload; op <= OpSaload; op++ {
		add(0, false, op)
	}
	for op := OpIastore; op <= OpSastore; op++ {
		add(0, false, op)
	}
	add(0, false, OpArraylength, OpAthrow)
	add(1, false, OpNewarray, OpRet)
	add(2, false, OpJsr)
	add(4, false, OpJsrW)
	add(2, true, OpGetstatic, OpPutstatic, OpGetfield, OpPutfield,
		OpInvokevirtual, OpInvokespecial, OpNew, OpAnewarray, OpCheckcast, OpInstanceof)
	add(3, true, OpMultianewarray)
	add(4, true, OpInvokeinterface, OpInvokedynamic)
}
