package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/jvm-runtime/classfile"
	"github.com/wippyai/jvm-runtime/errors"
)

// Method is a method body together with the constant pool of its class.
// Class, Name and Descriptor only label traces and errors.
type Method struct {
	Class      string
	Name       string
	Descriptor string
	Code       *classfile.CodeAttribute
	Pool       *classfile.ConstantPool
}

func (m *Method) String() string {
	if m.Class == "" && m.Name == "" {
		return "<code>"
	}
	return m.Class + "." + m.Name + m.Descriptor
}

// MethodResolver locates statically bound methods for invokestatic.
type MethodResolver interface {
	ResolveStatic(class, name, descriptor string) (*Method, error)
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithMaxDepth bounds the call stack. Non-positive values select
// DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) { in.maxDepth = n }
}

// WithMaxSteps stops execution with a step_limit error after n
// instructions. Zero means no limit.
func WithMaxSteps(n int) Option {
	return func(in *Interpreter) { in.maxSteps = n }
}

// WithLogger sets the logger used for call and trace output.
func WithLogger(l *zap.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(on bool) Option {
	return func(in *Interpreter) { in.trace = on }
}

// WithResolver enables invokestatic.
func WithResolver(r MethodResolver) Option {
	return func(in *Interpreter) { in.resolver = r }
}

// Interpreter executes method bodies. It holds only configuration, so one
// Interpreter may run any number of invocations, each on its own Thread.
type Interpreter struct {
	logger   *zap.Logger
	resolver MethodResolver
	maxDepth int
	maxSteps int
	trace    bool
}

// NewInterpreter returns an interpreter with the given options applied.
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(in)
	}
	if in.logger == nil {
		in.logger = Logger()
	}
	return in
}

// Run executes code with the given initial locals. pool may be nil for
// code that never touches the constant pool.
func Run(code *classfile.CodeAttribute, locals []Slot) (*Result, error) {
	return NewInterpreter().Run(code, nil, locals)
}

// Run executes code with the given constant pool and initial locals.
func (in *Interpreter) Run(code *classfile.CodeAttribute, pool *classfile.ConstantPool, locals []Slot) (*Result, error) {
	return in.Invoke(&Method{Code: code, Pool: pool}, locals)
}

// Invoke runs m in a fresh frame on a new call stack until the outermost
// frame returns or runs off the end of its code.
func (in *Interpreter) Invoke(m *Method, args []Slot) (*Result, error) {
	if m == nil || m.Code == nil {
		return nil, errors.InvalidInput(errors.PhaseRuntime, "method has no code")
	}
	root, err := NewFrame(m, args)
	if err != nil {
		return nil, fmt.Errorf("%s: initial locals: %w", m, err)
	}

	thread := NewThread(in.maxDepth)
	if err := thread.PushFrame(root); err != nil {
		return nil, err
	}
	in.logger.Debug("invoke",
		zap.Stringer("method", m),
		zap.Int("max_stack", root.Stack.Cap()),
		zap.Int("max_locals", root.Locals.Len()),
	)

	res := &Result{MaxDepth: 1}
	for {
		f, _ := thread.CurrentFrame()
		if f.PC >= len(f.Code()) {
			// Running off the end ends the outermost invocation without a
			// value; nested frames return void.
			if thread.Depth() == 1 {
				res.snapshot(root)
				return res, nil
			}
			f.Return(KindVoid)
		} else {
			if in.maxSteps > 0 && res.Steps >= in.maxSteps {
				return nil, errors.StepLimit(in.maxSteps)
			}
			if err := in.step(f, thread.Depth()); err != nil {
				return nil, fmt.Errorf("%s at pc %d: %w", f.Method, f.PC, err)
			}
			res.Steps++
		}

		switch {
		case f.ret != nil:
			if _, err := thread.PopFrame(); err != nil {
				return nil, err
			}
			caller, ok := thread.CurrentFrame()
			if !ok {
				res.Kind, res.Value, res.Returned = f.ret.kind, f.ret.slots, true
				res.snapshot(root)
				in.logger.Debug("return",
					zap.Stringer("method", m),
					zap.Stringer("kind", res.Kind),
					zap.Int("steps", res.Steps),
				)
				return res, nil
			}
			for _, s := range f.ret.slots {
				if err := caller.Stack.PushSlot(s); err != nil {
					return nil, fmt.Errorf("%s at pc %d: %w", caller.Method, caller.PC, err)
				}
			}

		case f.call != nil:
			call := f.call
			f.call = nil
			callee, err := in.enter(call)
			if err != nil {
				return nil, fmt.Errorf("%s at pc %d: %w", f.Method, f.PC, err)
			}
			if err := thread.PushFrame(callee); err != nil {
				return nil, fmt.Errorf("invoke %s.%s%s: %w", call.class, call.name, call.descriptor, err)
			}
			res.MaxDepth = max(res.MaxDepth, thread.Depth())
		}
	}
}

// step decodes and executes the instruction at f.PC.
func (in *Interpreter) step(f *Frame, depth int) error {
	r := f.reader
	if err := r.SetPC(f.PC); err != nil {
		return err
	}
	op, err := r.ReadU8()
	if err != nil {
		return err
	}
	ins, err := NewInstruction(op, f.PC)
	if err != nil {
		return err
	}
	if err := ins.FetchOperands(r); err != nil {
		return fmt.Errorf("%s operands: %w", ins.Opcode(), err)
	}
	f.NextPC = r.PC()

	if in.trace {
		if ce := in.logger.Check(zap.DebugLevel, "step"); ce != nil {
			ce.Write(
				zap.Int("depth", depth),
				zap.Int("pc", f.PC),
				zap.Stringer("insn", ins),
				zap.Int("stack", f.Stack.Len()),
			)
		}
	}

	if err := ins.Execute(f); err != nil {
		return fmt.Errorf("%s: %w", ins, err)
	}
	if f.ret != nil {
		return nil
	}
	if f.NextPC < 0 || f.NextPC > len(f.Code()) {
		return errors.InvalidIndex(errors.PhaseRuntime, "branch target", f.NextPC, len(f.Code()))
	}
	f.PC = f.NextPC
	return nil
}

func (in *Interpreter) enter(call *pendingCall) (*Frame, error) {
	if in.resolver == nil {
		return nil, errors.Unsupported(errors.PhaseRuntime, "invokestatic without a method resolver")
	}
	m, err := in.resolver.ResolveStatic(call.class, call.name, call.descriptor)
	if err != nil {
		return nil, err
	}
	if m.Code == nil {
		return nil, errors.InvalidData(errors.PhaseRuntime, []string{m.String()}, "method has no Code attribute")
	}
	return NewFrame(m, call.args)
}
