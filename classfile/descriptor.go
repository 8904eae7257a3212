package classfile

import (
	"strings"

	"github.com/wippyai/jvm-runtime/errors"
)

// FieldType is a parsed field descriptor such as I, [J or Ljava/lang/String;.
type FieldType struct {
	// Base is the descriptor character of the element type: one of
	// BCDFIJSZ, L for classes, or V for a void return.
	Base byte
	// Dims is the array dimension count.
	Dims int
	// Class is the internal class name when Base is 'L'.
	Class string
}

// Slots returns how many local variable slots a value of this type takes.
func (t FieldType) Slots() int {
	switch {
	case t.Base == 'V':
		return 0
	case t.Dims == 0 && (t.Base == 'J' || t.Base == 'D'):
		return 2
	}
	return 1
}

// IsReference reports whether values of this type are references.
func (t FieldType) IsReference() bool {
	return t.Dims > 0 || t.Base == 'L'
}

func (t FieldType) String() string {
	var b strings.Builder
	for range t.Dims {
		b.WriteByte('[')
	}
	b.WriteByte(t.Base)
	if t.Base == 'L' {
		b.WriteString(t.Class)
		b.WriteByte(';')
	}
	return b.String()
}

// MethodDescriptor is a parsed method descriptor such as (IJ)V.
type MethodDescriptor struct {
	Params []FieldType
	Return FieldType
}

// ArgSlots returns the local variable slots the parameters occupy, not
// counting a receiver.
func (d MethodDescriptor) ArgSlots() int {
	n := 0
	for _, p := range d.Params {
		n += p.Slots()
	}
	return n
}

func (d MethodDescriptor) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range d.Params {
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	b.WriteString(d.Return.String())
	return b.String()
}

// ParseFieldType parses a complete field descriptor.
func ParseFieldType(desc string) (FieldType, error) {
	t, n, problem := parseFieldType(desc, false)
	if problem != "" {
		return FieldType{}, badDescriptor(desc, problem)
	}
	if n != len(desc) {
		return FieldType{}, badDescriptor(desc, "trailing characters")
	}
	return t, nil
}

// ParseMethodDescriptor parses a method descriptor.
func ParseMethodDescriptor(desc string) (MethodDescriptor, error) {
	if !strings.HasPrefix(desc, "(") {
		return MethodDescriptor{}, badDescriptor(desc, "missing '('")
	}
	var d MethodDescriptor
	i := 1
	for {
		if i >= len(desc) {
			return MethodDescriptor{}, badDescriptor(desc, "missing ')'")
		}
		if desc[i] == ')' {
			i++
			break
		}
		t, n, problem := parseFieldType(desc[i:], false)
		if problem != "" {
			return MethodDescriptor{}, badDescriptor(desc, problem)
		}
		d.Params = append(d.Params, t)
		i += n
	}
	ret, n, problem := parseFieldType(desc[i:], true)
	if problem != "" {
		return MethodDescriptor{}, badDescriptor(desc, problem)
	}
	if i+n != len(desc) {
		return MethodDescriptor{}, badDescriptor(desc, "trailing characters")
	}
	d.Return = ret
	return d, nil
}

// parseFieldType parses one type at the start of s and returns how many
// bytes it used, or a description of the problem.
func parseFieldType(s string, allowVoid bool) (FieldType, int, string) {
	var t FieldType
	i := 0
	for i < len(s) && s[i] == '[' {
		t.Dims++
		i++
	}
	if t.Dims > 255 {
		return FieldType{}, 0, "more than 255 array dimensions"
	}
	if i >= len(s) {
		return FieldType{}, 0, "missing type"
	}
	t.Base = s[i]
	switch t.Base {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return t, i + 1, ""
	case 'V':
		if !allowVoid || t.Dims > 0 {
			return FieldType{}, 0, "void is only valid as a return type"
		}
		return t, i + 1, ""
	case 'L':
		end := strings.IndexByte(s[i:], ';')
		if end <= 1 {
			return FieldType{}, 0, "unterminated class name"
		}
		t.Class = s[i+1 : i+end]
		return t, i + end + 1, ""
	}
	return FieldType{}, 0, "unknown type character " + string(t.Base)
}

func badDescriptor(desc, detail string) *errors.Error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidData).
		Path("descriptor").
		Value(desc).
		Detail("%q: %s", desc, detail).
		Build()
}
