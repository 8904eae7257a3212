package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseDecode,
				Kind:   KindLengthMismatch,
				Path:   []string{"methods[1]", "Code", "LineNumberTable"},
				Detail: "declared 6 bytes, consumed 4",
			},
			contains: []string{"[decode]", "length_mismatch", "methods[1].Code.LineNumberTable", "declared 6 bytes"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseRuntime,
				Kind:  KindStackOverflow,
			},
			contains: []string{"[runtime]", "stack_overflow"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidData,
				Detail: "read class",
				Cause:  errors.New("permission denied"),
			},
			contains: []string{"[load]", "invalid_data", "read class", "caused by", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseEncode,
		Kind:  KindInvalidData,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseDecode,
		Kind:  KindTruncatedInput,
		Path:  []string{"constant_pool[3]"},
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindTruncatedInput}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseRuntime, Kind: KindTruncatedInput}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindMalformedHeader}) {
		t.Error("Is should not match different kind")
	}

	wrapped := fmt.Errorf("constant pool: %w", err)
	if !errors.Is(wrapped, &Error{Phase: PhaseDecode, Kind: KindTruncatedInput}) {
		t.Error("errors.Is should see through fmt wrapping")
	}
}

func TestIsKind(t *testing.T) {
	inner := Truncated(10, 4, 1)
	outer := Wrap(PhaseLoad, KindInvalidData, fmt.Errorf("decode: %w", inner), "load class")

	if !IsKind(outer, KindInvalidData) {
		t.Error("IsKind should match outer kind")
	}
	if !IsKind(outer, KindTruncatedInput) {
		t.Error("IsKind should match kind further down the cause chain")
	}
	if IsKind(outer, KindUnknownOpcode) {
		t.Error("IsKind matched an absent kind")
	}
	if IsKind(errors.New("plain"), KindInvalidData) {
		t.Error("IsKind matched a plain error")
	}
	if IsKind(nil, KindInvalidData) {
		t.Error("IsKind matched nil")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindLengthMismatch).
		Path("fields[0]", "ConstantValue").
		Value(4).
		Cause(cause).
		Detail("declared %d bytes, consumed %d", 4, 2).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindLengthMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindLengthMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "fields[0]" || err.Path[1] != "ConstantValue" {
		t.Errorf("Path = %v, want [fields[0] ConstantValue]", err.Path)
	}
	if err.Value != 4 {
		t.Errorf("Value = %v, want 4", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "declared 4 bytes, consumed 2" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
		want  string
	}{
		{"MalformedHeader", MalformedHeader(0xDEADBEEF), PhaseDecode, KindMalformedHeader, "0xDEADBEEF"},
		{"Truncated", Truncated(8, 4, 2), PhaseDecode, KindTruncatedInput, "offset 8"},
		{"UnknownConstantTag", UnknownConstantTag(2, 5), PhaseDecode, KindUnknownConstantTag, "constant_pool[5]"},
		{"UnknownOpcode", UnknownOpcode(0xfe, 12), PhaseRuntime, KindUnknownOpcode, "0xfe"},
		{"MalformedString", MalformedString("partial character at end", []byte{0xe0}), PhaseDecode, KindMalformedString, "e0"},
		{"LengthMismatch", LengthMismatch([]string{"Code"}, 12, 10), PhaseDecode, KindLengthMismatch, "declared 12"},
		{"InvalidIndex", InvalidIndex(PhaseDecode, "constant pool", 0, 3), PhaseDecode, KindInvalidIndex, "index 0"},
		{"TypeMismatch", TypeMismatch(PhaseDecode, nil, "Utf8", "Class"), PhaseDecode, KindTypeMismatch, "want Utf8"},
		{"InvalidData", InvalidData(PhaseDecode, []string{"Code"}, "nested Code"), PhaseDecode, KindInvalidData, "nested Code"},
		{"StackOverflow", StackOverflow("operand stack", 2), PhaseRuntime, KindStackOverflow, "capacity 2"},
		{"StackUnderflow", StackUnderflow("operand stack"), PhaseRuntime, KindStackUnderflow, "operand stack underflow"},
		{"LocalIndexOutOfRange", LocalIndexOutOfRange(5, 2), PhaseRuntime, KindLocalIndexOutOfRange, "local 5"},
		{"Arithmetic", Arithmetic("/ by zero"), PhaseRuntime, KindArithmetic, "/ by zero"},
		{"StepLimit", StepLimit(100), PhaseRuntime, KindStepLimit, "100 steps"},
		{"Unsupported", Unsupported(PhaseRuntime, "ldc of String"), PhaseRuntime, KindUnsupported, "ldc of String"},
		{"NotFound", NotFound(PhaseLoad, "class", "a/B"), PhaseLoad, KindNotFound, `"a/B"`},
		{"InvalidInput", InvalidInput(PhaseConfig, "max_call_depth must be positive"), PhaseConfig, KindInvalidInput, "positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.want) {
				t.Errorf("Error() = %q, want substring %q", tt.err.Error(), tt.want)
			}
		})
	}
}

func TestMalformedStringPreviewIsBounded(t *testing.T) {
	data := make([]byte, 100)
	err := MalformedString("malformed input", data)
	// 32 bytes of preview render as 64 hex digits.
	if strings.Count(err.Detail, "00") > 32 {
		t.Errorf("preview not truncated: %q", err.Detail)
	}
}

func TestLoad(t *testing.T) {
	cause := errors.New("no such file")
	err := Load("read class file", cause)
	if err.Phase != PhaseLoad {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseLoad)
	}
	if !errors.Is(err, cause) {
		t.Error("Load should wrap its cause")
	}
}
