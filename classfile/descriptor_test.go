package classfile_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/wippyai/jvm-runtime/classfile"
	jerrors "github.com/wippyai/jvm-runtime/errors"
)

func TestParseFieldType(t *testing.T) {
	tests := []struct {
		desc  string
		base  byte
		dims  int
		class string
		slots int
		ref   bool
	}{
		{"I", 'I', 0, "", 1, false},
		{"J", 'J', 0, "", 2, false},
		{"D", 'D', 0, "", 2, false},
		{"Z", 'Z', 0, "", 1, false},
		{"[J", 'J', 1, "", 1, true},
		{"Ljava/lang/String;", 'L', 0, "java/lang/String", 1, true},
		{"[[Ljava/lang/Object;", 'L', 2, "java/lang/Object", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			ft, err := classfile.ParseFieldType(tt.desc)
			if err != nil {
				t.Fatalf("ParseFieldType: %v", err)
			}
			if ft.Base != tt.base || ft.Dims != tt.dims || ft.Class != tt.class {
				t.Errorf("got %+v", ft)
			}
			if ft.Slots() != tt.slots {
				t.Errorf("Slots() = %d, want %d", ft.Slots(), tt.slots)
			}
			if ft.IsReference() != tt.ref {
				t.Errorf("IsReference() = %v, want %v", ft.IsReference(), tt.ref)
			}
			if ft.String() != tt.desc {
				t.Errorf("String() = %q, want %q", ft.String(), tt.desc)
			}
		})
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	tests := []struct {
		desc     string
		params   int
		argSlots int
		ret      byte
	}{
		{"()V", 0, 0, 'V'},
		{"(II)I", 2, 2, 'I'},
		{"(IJ)V", 2, 3, 'V'},
		{"(DLjava/lang/String;[I)[J", 3, 4, 'J'},
		{"([Ljava/lang/String;)V", 1, 1, 'V'},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			d, err := classfile.ParseMethodDescriptor(tt.desc)
			if err != nil {
				t.Fatalf("ParseMethodDescriptor: %v", err)
			}
			if len(d.Params) != tt.params {
				t.Errorf("params = %d, want %d", len(d.Params), tt.params)
			}
			if d.ArgSlots() != tt.argSlots {
				t.Errorf("ArgSlots() = %d, want %d", d.ArgSlots(), tt.argSlots)
			}
			if d.Return.Base != tt.ret {
				t.Errorf("return base = %c, want %c", d.Return.Base, tt.ret)
			}
			if d.String() != tt.desc {
				t.Errorf("String() = %q, want %q", d.String(), tt.desc)
			}
		})
	}
}

func TestMalformedDescriptors(t *testing.T) {
	invalid := &jerrors.Error{Phase: jerrors.PhaseDecode, Kind: jerrors.KindInvalidData}

	fields := []struct {
		desc    string
		problem string
	}{
		{"", "missing type"},
		{"V", "void"},
		{"[V", "void"},
		{"Q", "unknown type character"},
		{"Ljava/lang/String", "unterminated"},
		{"L;", "unterminated"},
		{"II", "trailing"},
		{"[" + strings.Repeat("[", 255) + "I", "255"},
	}
	for _, tt := range fields {
		_, err := classfile.ParseFieldType(tt.desc)
		if !errors.Is(err, invalid) {
			t.Errorf("ParseFieldType(%q): expected invalid data, got %v", tt.desc, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.problem) {
			t.Errorf("ParseFieldType(%q) = %v, want mention of %q", tt.desc, err, tt.problem)
		}
	}

	methods := []struct {
		desc    string
		problem string
	}{
		{"I", "missing '('"},
		{"(I", "missing ')'"},
		{"(I)", "missing type"},
		{"(V)V", "void"},
		{"(I)VV", "trailing"},
	}
	for _, tt := range methods {
		_, err := classfile.ParseMethodDescriptor(tt.desc)
		if !errors.Is(err, invalid) {
			t.Errorf("ParseMethodDescriptor(%q): expected invalid data, got %v", tt.desc, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.problem) {
			t.Errorf("ParseMethodDescriptor(%q) = %v, want mention of %q", tt.desc, err, tt.problem)
		}
	}
}
