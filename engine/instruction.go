package engine

import (
	"fmt"

	"github.com/wippyai/jvm-runtime/errors"
)

// Instruction is one decoded bytecode instruction. A fresh value is made
// for every decode, FetchOperands reads the immediate operands that follow
// the opcode, and Execute applies the instruction to a frame.
type Instruction interface {
	Opcode() Opcode
	FetchOperands(r *BytecodeReader) error
	Execute(f *Frame) error
	String() string
}

// instructionTable maps each opcode to a constructor; nil entries are
// undefined opcodes.
var instructionTable = newInstructionTable()

func newInstructionTable() [256]func() Instruction {
	var t [256]func() Instruction
	registerConstants(&t)
	registerLocals(&t)
	registerStack(&t)
	registerMath(&t)
	registerControl(&t)
	registerUnsupported(&t)
	return t
}

// NewInstruction returns an empty instruction for op. pc only locates
// the failure when op is undefined.
func NewInstruction(op uint8, pc int) (Instruction, error) {
	mk := instructionTable[op]
	if mk == nil {
		return nil, errors.UnknownOpcode(op, pc)
	}
	return mk(), nil
}

// DecodedInstruction is an instruction together with its offset.
type DecodedInstruction struct {
	PC          int
	Instruction Instruction
}

func (d DecodedInstruction) String() string {
	return fmt.Sprintf("%4d: %s", d.PC, d.Instruction)
}

// Disassemble decodes code from start to end without executing it. On
// error the instructions decoded so far are returned with it.
func Disassemble(code []byte) ([]DecodedInstruction, error) {
	r := NewBytecodeReader(code)
	var out []DecodedInstruction
	for !r.Done() {
		pc := r.PC()
		op, err := r.ReadU8()
		if err != nil {
			return out, err
		}
		ins, err := NewInstruction(op, pc)
		if err != nil {
			return out, err
		}
		if err := ins.FetchOperands(r); err != nil {
			return out, fmt.Errorf("%s operands at pc %d: %w", ins.Opcode(), pc, err)
		}
		out = append(out, DecodedInstruction{PC: pc, Instruction: ins})
	}
	return out, nil
}

type base struct {
	op Opcode
}

func (b base) Opcode() Opcode { return b.op }

// simple is an instruction without operands.
type simple struct {
	base
	exec func(f *Frame) error
}

func (i *simple) FetchOperands(*BytecodeReader) error { return nil }
func (i *simple) Execute(f *Frame) error              { return i.exec(f) }
func (i *simple) String() string                      { return i.op.String() }

func op0(op Opcode, exec func(f *Frame) error) func() Instruction {
	return func() Instruction { return &simple{base: base{op}, exec: exec} }
}
