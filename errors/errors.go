package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode  Phase = "decode"  // class bytes to descriptor
	PhaseEncode  Phase = "encode"  // descriptor to class bytes
	PhaseRuntime Phase = "runtime" // bytecode execution
	PhaseLoad    Phase = "load"    // locating class bytes
	PhaseConfig  Phase = "config"  // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindMalformedHeader      Kind = "malformed_header"
	KindTruncatedInput       Kind = "truncated_input"
	KindUnknownConstantTag   Kind = "unknown_constant_tag"
	KindUnknownOpcode        Kind = "unknown_opcode"
	KindMalformedString      Kind = "malformed_string"
	KindLengthMismatch       Kind = "length_mismatch"
	KindInvalidIndex         Kind = "invalid_index"
	KindTypeMismatch         Kind = "type_mismatch"
	KindInvalidData          Kind = "invalid_data"
	KindStackOverflow        Kind = "stack_overflow"
	KindStackUnderflow       Kind = "stack_underflow"
	KindLocalIndexOutOfRange Kind = "local_index_out_of_range"
	KindArithmetic           Kind = "arithmetic"
	KindStepLimit            Kind = "step_limit"
	KindNotFound             Kind = "not_found"
	KindInvalidInput         Kind = "invalid_input"
	KindUnsupported          Kind = "unsupported"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the structural location
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// MalformedHeader creates a bad magic number error
func MalformedHeader(magic uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMalformedHeader,
		Detail: fmt.Sprintf("bad magic 0x%08X", magic),
		Value:  magic,
	}
}

// Truncated creates a read-past-end error
func Truncated(offset, want, remaining int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindTruncatedInput,
		Detail: fmt.Sprintf("need %d bytes at offset %d, %d remaining", want, offset, remaining),
		Value:  offset,
	}
}

// UnknownConstantTag creates an unrecognized constant pool tag error
func UnknownConstantTag(tag uint8, index int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnknownConstantTag,
		Path:   []string{fmt.Sprintf("constant_pool[%d]", index)},
		Detail: fmt.Sprintf("unknown tag %d", tag),
		Value:  tag,
	}
}

// UnknownOpcode creates an unrecognized opcode error
func UnknownOpcode(op uint8, pc int) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindUnknownOpcode,
		Detail: fmt.Sprintf("unknown opcode 0x%02x at pc %d", op, pc),
		Value:  op,
	}
}

// MalformedString creates a modified UTF-8 decoding error
func MalformedString(detail string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMalformedString,
		Detail: fmt.Sprintf("%s: %x", detail, preview),
	}
}

// LengthMismatch creates an error for a record that did not consume its declared length
func LengthMismatch(path []string, declared, consumed int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindLengthMismatch,
		Path:   path,
		Detail: fmt.Sprintf("declared %d bytes, consumed %d", declared, consumed),
		Value:  declared,
	}
}

// InvalidIndex creates an error for an index naming no usable entry
func InvalidIndex(phase Phase, what string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidIndex,
		Detail: fmt.Sprintf("%s index %d is not usable (length %d)", what, index, length),
		Value:  index,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Path:   path,
		Detail: fmt.Sprintf("want %s, got %s", want, got),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// StackOverflow creates a stack overflow error for operand or call stacks
func StackOverflow(what string, capacity int) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindStackOverflow,
		Detail: fmt.Sprintf("%s overflow (capacity %d)", what, capacity),
		Value:  capacity,
	}
}

// StackUnderflow creates a stack underflow error
func StackUnderflow(what string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindStackUnderflow,
		Detail: what + " underflow",
	}
}

// LocalIndexOutOfRange creates an out of range local variable access error
func LocalIndexOutOfRange(index, length int) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindLocalIndexOutOfRange,
		Detail: fmt.Sprintf("local %d out of range (max_locals %d)", index, length),
		Value:  index,
	}
}

// Arithmetic creates an arithmetic fault error
func Arithmetic(detail string) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindArithmetic,
		Detail: detail,
	}
}

// StepLimit creates an error for a program exceeding its step budget
func StepLimit(limit int) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindStepLimit,
		Detail: fmt.Sprintf("exceeded %d steps", limit),
		Value:  limit,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a class loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
