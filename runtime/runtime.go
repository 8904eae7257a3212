package runtime

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	jvmruntime "github.com/wippyai/jvm-runtime"
	"github.com/wippyai/jvm-runtime/classfile"
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/errors"
)

// DefaultCacheSize is the number of decoded classes kept when no
// WithCacheSize option is given.
const DefaultCacheSize = 256

// Runtime loads classes through a ClassLoader and invokes their methods.
// It is safe for concurrent use.
type Runtime struct {
	loader    jvmruntime.ClassLoader
	classes   *lru.Cache
	logger    *zap.Logger
	cacheSize int
	maxDepth  int
	maxSteps  int
	trace     bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithCacheSize sets how many decoded classes are kept.
func WithCacheSize(n int) Option {
	return func(r *Runtime) { r.cacheSize = n }
}

// WithMaxCallDepth bounds the call stack of every invocation.
func WithMaxCallDepth(n int) Option {
	return func(r *Runtime) { r.maxDepth = n }
}

// WithMaxSteps stops invocations after n instructions. Zero disables the
// limit.
func WithMaxSteps(n int) Option {
	return func(r *Runtime) { r.maxSteps = n }
}

// WithLogger sets the logger for class loading and execution.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithTrace logs every executed instruction at debug level.
func WithTrace(on bool) Option {
	return func(r *Runtime) { r.trace = on }
}

// New returns a runtime reading classes from cl.
func New(cl jvmruntime.ClassLoader, opts ...Option) (*Runtime, error) {
	if cl == nil {
		return nil, errors.InvalidInput(errors.PhaseLoad, "nil class loader")
	}
	r := &Runtime{
		loader:    cl,
		logger:    zap.NewNop(),
		cacheSize: DefaultCacheSize,
		maxDepth:  engine.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.maxSteps < 0 {
		return nil, errors.InvalidInput(errors.PhaseConfig, "max steps must not be negative")
	}
	cache, err := lru.New(r.cacheSize)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "class cache")
	}
	r.classes = cache
	return r, nil
}

// internalName converts a dotted binary name to an internal name.
func internalName(name string) string {
	return strings.ReplaceAll(strings.TrimSuffix(name, ".class"), ".", "/")
}

// LoadClass returns the decoded class name, reading and decoding it on
// first use. The returned class is shared and must not be modified.
func (r *Runtime) LoadClass(name string) (*classfile.Class, error) {
	name = internalName(name)
	if v, ok := r.classes.Get(name); ok {
		return v.(*classfile.Class), nil
	}

	data, err := r.loader.Load(name)
	if err != nil {
		return nil, err
	}
	class, err := classfile.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("decode class %s: %w", name, err)
	}
	got, err := class.Name()
	if err != nil {
		return nil, fmt.Errorf("decode class %s: %w", name, err)
	}
	if got != name {
		return nil, errors.InvalidData(errors.PhaseLoad, []string{name},
			fmt.Sprintf("class file defines %s", got))
	}

	r.classes.Add(name, class)
	r.logger.Debug("class loaded",
		zap.String("class", name),
		zap.String("version", class.Version()),
		zap.Int("methods", len(class.Methods)),
		zap.Int("pool", class.ConstantPool.Count()),
	)
	return class, nil
}

// Cached reports whether name is in the class cache.
func (r *Runtime) Cached(name string) bool {
	return r.classes.Contains(internalName(name))
}

// Method looks up a method with a body. descriptor may be empty when the
// name is not overloaded.
func (r *Runtime) Method(className, methodName, descriptor string) (*engine.Method, *classfile.Member, error) {
	class, err := r.LoadClass(className)
	if err != nil {
		return nil, nil, err
	}
	member, err := class.FindMethod(methodName, descriptor)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", internalName(className), err)
	}
	desc, err := member.Descriptor(class.ConstantPool)
	if err != nil {
		return nil, nil, err
	}
	m := &engine.Method{
		Class:      internalName(className),
		Name:       methodName,
		Descriptor: desc,
		Pool:       class.ConstantPool,
	}
	code, ok := member.Code()
	if !ok {
		kind := "abstract"
		if member.AccessFlags.Has(classfile.AccNative) {
			kind = "native"
		}
		return nil, nil, errors.Unsupported(errors.PhaseRuntime,
			fmt.Sprintf("%s is %s and has no Code attribute", m, kind))
	}
	m.Code = code
	return m, member, nil
}

// ResolveStatic implements engine.MethodResolver for invokestatic.
func (r *Runtime) ResolveStatic(class, name, descriptor string) (*engine.Method, error) {
	m, member, err := r.Method(class, name, descriptor)
	if err != nil {
		return nil, err
	}
	if !member.AccessFlags.Has(classfile.AccStatic) {
		return nil, errors.InvalidData(errors.PhaseRuntime, []string{m.String()},
			"invokestatic of an instance method")
	}
	return m, nil
}

// Interpreter returns an interpreter configured from the runtime options
// that resolves static calls through the runtime.
func (r *Runtime) Interpreter() *engine.Interpreter {
	return engine.NewInterpreter(
		engine.WithResolver(r),
		engine.WithMaxDepth(r.maxDepth),
		engine.WithMaxSteps(r.maxSteps),
		engine.WithLogger(r.logger),
		engine.WithTrace(r.trace),
	)
}

// Invoke runs a method with the given initial locals. Instance methods
// take the receiver reference as their first argument.
func (r *Runtime) Invoke(className, methodName, descriptor string, args engine.Args) (*engine.Result, error) {
	m, member, err := r.Method(className, methodName, descriptor)
	if err != nil {
		return nil, err
	}
	desc, err := classfile.ParseMethodDescriptor(m.Descriptor)
	if err != nil {
		return nil, err
	}
	want := desc.ArgSlots()
	if !member.AccessFlags.Has(classfile.AccStatic) {
		want++
	}
	if len(args) != want {
		return nil, errors.InvalidInput(errors.PhaseRuntime,
			fmt.Sprintf("%s takes %d argument slots, got %d", m, want, len(args)))
	}
	return r.Interpreter().Invoke(m, args)
}
