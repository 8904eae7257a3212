// Package engine executes JVM method bodies.
//
// The engine is a plain stack interpreter over the bytecode of a
// classfile.CodeAttribute. Every invocation runs in a Frame holding a
// fixed-size LocalVars array and a bounded OperandStack, both sized from
// the Code attribute's max_locals and max_stack. Frames live on a Thread,
// whose depth is bounded so runaway recursion fails with a stack_overflow
// error instead of exhausting host memory.
//
// # Slots
//
// Locals and operand stack cells are Slots. A Slot is either a Numeric
// (32 raw bits) or a RefSlot. long and double values take two slots, the
// high half first:
//
//	int/float/reference    1 slot
//	long/double            2 slots (hi, lo)
//
// # Instructions
//
// Each opcode maps to a constructor in a 256-entry table. The interpreter
// loop reads the opcode at the frame's PC, builds a fresh Instruction,
// lets it read its operands, sets NextPC past them and executes it.
// Branches overwrite NextPC. Undefined opcodes fail with unknown_opcode;
// opcodes that need an object model (fields, arrays, new, athrow) decode
// normally, so Disassemble can list them, but fail with unsupported when
// executed.
//
// # Usage
//
//	res, err := engine.Run(code, engine.Args{}.I32(2).I32(3))
//	if err != nil {
//	    return err
//	}
//	sum, err := res.Int()
//
// invokestatic needs a MethodResolver, supplied with WithResolver:
//
//	in := engine.NewInterpreter(
//	    engine.WithResolver(resolver),
//	    engine.WithMaxDepth(256),
//	)
//	res, err := in.Invoke(method, args)
package engine
