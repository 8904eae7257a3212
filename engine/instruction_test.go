package engine_test

import (
	"strings"
	"testing"

	"github.com/wippyai/jvm-runtime/engine"
	jerrors "github.com/wippyai/jvm-runtime/errors"
)

func TestEveryDefinedOpcodeDecodes(t *testing.T) {
	for op := 0; op <= int(engine.OpJsrW); op++ {
		ins, err := engine.NewInstruction(uint8(op), 0)
		if err != nil {
			t.Errorf("opcode 0x%02x: %v", op, err)
			continue
		}
		if ins.Opcode() != engine.Opcode(op) {
			t.Errorf("opcode 0x%02x: instruction reports %s", op, ins.Opcode())
		}
		if engine.Opcode(op).Name() == "" {
			t.Errorf("opcode 0x%02x has no mnemonic", op)
		}
	}
}

func TestUndefinedOpcodes(t *testing.T) {
	for _, op := range []uint8{0xca, 0xcb, 0xfe, 0xff} {
		_, err := engine.NewInstruction(op, 7)
		wantKind(t, err, jerrors.PhaseRuntime, jerrors.KindUnknownOpcode)
		if !strings.Contains(err.Error(), "pc 7") {
			t.Errorf("error %q does not locate the opcode", err)
		}
		if got := engine.Opcode(op).String(); !strings.HasPrefix(got, "opcode(0x") {
			t.Errorf("String() = %q", got)
		}
	}
}

func TestDisassemble(t *testing.T) {
	bytecode := []byte{
		0x03,
		0x3c,
		0x10, 0x0a,
		0xa3, 0x00, 0x08,
		0x84, 0x01, 0xff,
		0xa7, 0xff, 0xf6,
		0xb2, 0x00, 0x07,
		0xc4, 0x15, 0x01, 0x00,
		0xb1,
	}

	got, err := engine.Disassemble(bytecode)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}

	want := []string{
		"   0: iconst_0",
		"   1: istore_1",
		"   2: bipush 10",
		"   4: if_icmpgt 12",
		"   7: iinc 1 -1",
		"  10: goto 0",
		"  13: getstatic #7",
		"  16: wide iload 256",
		"  20: return",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d instructions, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i].String() != want[i] {
			t.Errorf("instruction %d = %q, want %q", i, got[i].String(), want[i])
		}
	}
}

func TestDisassembleSwitchPadding(t *testing.T) {
	bytecode := []byte{
		// nop nop lookupswitch, one byte of padding
		0x00, 0x00, 0xab, 0x00,
		// default 18, one pair
		0x00, 0x00, 0x00, 0x10,
		0x00, 0x00, 0x00, 0x01,
		// 5 -> 19
		0x00, 0x00, 0x00, 0x05, 0x00, 0x00, 0x00, 0x11,
		0xb1, 0xb1,
	}

	got, err := engine.Disassemble(bytecode)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d instructions, want 5: %v", len(got), got)
	}
	if s := got[2].String(); s != "   2: lookupswitch default 18 5:19" {
		t.Errorf("switch = %q", s)
	}
	if got[3].PC != 20 {
		t.Errorf("instruction after switch at %d, want 20", got[3].PC)
	}
}

func TestDisassemblePartialOnError(t *testing.T) {
	got, err := engine.Disassemble([]byte{0x04, 0x05, 0xcb, 0x60})
	wantKind(t, err, jerrors.PhaseRuntime, jerrors.KindUnknownOpcode)
	if len(got) != 2 {
		t.Errorf("got %d instructions before the error, want 2", len(got))
	}

	_, err = engine.Disassemble([]byte{0xa7, 0x00})
	wantKind(t, err, jerrors.PhaseDecode, jerrors.KindTruncatedInput)
}

func TestMalformedOperandsFailDecode(t *testing.T) {
	tests := []struct {
		name     string
		bytecode []byte
	}{
		{"wide iadd", []byte{0xc4, 0x60, 0x00, 0x00}},
		{"tableswitch high below low", []byte{
			// tableswitch, three bytes of padding
			0xaa, 0x00, 0x00, 0x00,
			// default 0, low 2, high 1
			0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x02,
			0x00, 0x00, 0x00, 0x01,
		}},
		{"lookupswitch negative count", []byte{
			// lookupswitch, three bytes of padding
			0xab, 0x00, 0x00, 0x00,
			// default 0, count -1
			0x00, 0x00, 0x00, 0x00,
			0xff, 0xff, 0xff, 0xff,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Disassemble(tt.bytecode)
			wantKind(t, err, jerrors.PhaseDecode, jerrors.KindInvalidData)
			if len(got) != 0 {
				t.Errorf("got %d instructions, want none", len(got))
			}
		})
	}
}
