package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/wippyai/jvm-runtime/errors"
)

// Result describes how an invocation ended.
type Result struct {
	// Kind and Value hold the returned value when Returned is set. Value
	// has Kind.Width() slots.
	Kind     ValueKind
	Value    []Slot
	Returned bool

	// Stack and Locals are the outermost frame's operand stack and local
	// variables when execution stopped.
	Stack  []Slot
	Locals []Slot

	Steps    int
	MaxDepth int
}

func (r *Result) snapshot(f *Frame) {
	r.Stack = f.Stack.Snapshot()
	r.Locals = f.Locals.Slots()
}

func (r *Result) expect(kind ValueKind) error {
	if !r.Returned || r.Kind != kind {
		got := r.Kind.String()
		if !r.Returned {
			got = "no return"
		}
		return errors.TypeMismatch(errors.PhaseRuntime, []string{"result"}, kind.String(), got)
	}
	return nil
}

func numericBits(s Slot) uint32 {
	if n, ok := s.(Numeric); ok {
		return uint32(n)
	}
	return 0
}

// Int returns an int result. It fails with a type mismatch when the method
// returned another kind or nothing.
func (r *Result) Int() (int32, error) {
	if err := r.expect(KindInt); err != nil {
		return 0, err
	}
	return int32(numericBits(r.Value[0])), nil
}

// Long joins the two result slots, high half first, into a long.
func (r *Result) Long() (int64, error) {
	if err := r.expect(KindLong); err != nil {
		return 0, err
	}
	return int64(joinU64(numericBits(r.Value[0]), numericBits(r.Value[1]))), nil
}

// Float returns a float result.
func (r *Result) Float() (float32, error) {
	if err := r.expect(KindFloat); err != nil {
		return 0, err
	}
	return math.Float32frombits(numericBits(r.Value[0])), nil
}

// Double joins the two result slots, high half first, into a double.
func (r *Result) Double() (float64, error) {
	if err := r.expect(KindDouble); err != nil {
		return 0, err
	}
	return math.Float64frombits(joinU64(numericBits(r.Value[0]), numericBits(r.Value[1]))), nil
}

// Ref returns a reference result; nil is the null reference.
func (r *Result) Ref() (Reference, error) {
	if err := r.expect(KindRef); err != nil {
		return nil, err
	}
	if s, ok := r.Value[0].(RefSlot); ok {
		return s.Ref, nil
	}
	return nil, nil
}

// String renders the returned value, or notes that none was returned.
func (r *Result) String() string {
	if !r.Returned {
		return "(no return)"
	}
	switch r.Kind {
	case KindVoid:
		return "void"
	case KindInt:
		v, _ := r.Int()
		return fmt.Sprintf("%d (int)", v)
	case KindLong:
		v, _ := r.Long()
		return fmt.Sprintf("%d (long)", v)
	case KindFloat:
		v, _ := r.Float()
		return fmt.Sprintf("%g (float)", v)
	case KindDouble:
		v, _ := r.Double()
		return fmt.Sprintf("%g (double)", v)
	case KindRef:
		v, _ := r.Ref()
		if s, ok := v.(string); ok {
			return fmt.Sprintf("%q (reference)", s)
		}
		if v == nil {
			return "null (reference)"
		}
		return fmt.Sprintf("%v (reference)", v)
	}
	return r.Kind.String()
}

// FormatSlots renders slots as a bracketed list for listings.
func FormatSlots(slots []Slot) string {
	parts := make([]string, len(slots))
	for i, s := range slots {
		parts[i] = describeSlot(s)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
