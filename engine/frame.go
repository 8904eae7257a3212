package engine

import (
	"github.com/wippyai/jvm-runtime/classfile"
	"github.com/wippyai/jvm-runtime/errors"
)

// Frame is the activation record of one method invocation.
type Frame struct {
	Method *Method
	Locals *LocalVars
	Stack  *OperandStack

	// PC is the offset of the instruction being executed. NextPC is where
	// execution continues; branches overwrite it.
	PC     int
	NextPC int

	reader *BytecodeReader
	ret    *returnValue
	call   *pendingCall
}

type returnValue struct {
	kind  ValueKind
	slots []Slot
}

// pendingCall is an invocation requested by the current instruction and
// carried out by the interpreter.
type pendingCall struct {
	class      string
	name       string
	descriptor string
	args       []Slot
}

// NewFrame allocates locals and operand stack sized by the method's Code
// attribute and copies args into the first locals.
func NewFrame(m *Method, args []Slot) (*Frame, error) {
	f := &Frame{
		Method: m,
		Locals: NewLocalVars(int(m.Code.MaxLocals)),
		Stack:  NewOperandStack(int(m.Code.MaxStack)),
		reader: NewBytecodeReader(m.Code.Code),
	}
	for i, s := range args {
		if err := f.Locals.SetSlot(i, s); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Pool returns the constant pool of the executing class.
func (f *Frame) Pool() *classfile.ConstantPool {
	return f.Method.Pool
}

// Code returns the bytecode being executed.
func (f *Frame) Code() []byte {
	return f.Method.Code.Code
}

// Branch makes execution continue at PC+offset.
func (f *Frame) Branch(offset int32) {
	f.NextPC = f.PC + int(offset)
}

// Return ends the invocation with the given value slots.
func (f *Frame) Return(kind ValueKind, value ...Slot) {
	f.ret = &returnValue{kind: kind, slots: value}
}

// Returned reports whether a return instruction has executed.
func (f *Frame) Returned() bool {
	return f.ret != nil
}

// constant returns constant pool entry index of the executing class.
func (f *Frame) constant(index uint16) (classfile.Constant, error) {
	pool := f.Pool()
	if pool == nil {
		return nil, errors.InvalidData(errors.PhaseRuntime, nil, "method has no constant pool")
	}
	c, ok := pool.Get(int(index))
	if !ok {
		return nil, errors.InvalidIndex(errors.PhaseRuntime, "constant pool", int(index), pool.Count())
	}
	return c, nil
}
