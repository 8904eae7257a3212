package engine_test

import (
	"math"
	"testing"

	"github.com/wippyai/jvm-runtime/engine"
	jerrors "github.com/wippyai/jvm-runtime/errors"
)

func TestLocalVarsScalars(t *testing.T) {
	l := engine.NewLocalVars(4)

	if err := l.SetI32(0, 42); err != nil {
		t.Fatalf("SetI32: %v", err)
	}
	if v, err := l.GetI32(0); err != nil || v != 42 {
		t.Errorf("GetI32 = %d, %v; want 42", v, err)
	}

	if err := l.SetF32(1, 1.5); err != nil {
		t.Fatalf("SetF32: %v", err)
	}
	if v, err := l.GetF32(1); err != nil || v != 1.5 {
		t.Errorf("GetF32 = %v, %v; want 1.5", v, err)
	}

	if err := l.SetRef(3, "obj"); err != nil {
		t.Fatalf("SetRef: %v", err)
	}
	if v, err := l.GetRef(3); err != nil || v != "obj" {
		t.Errorf("GetRef = %v, %v; want obj", v, err)
	}

	// Unset slots read as zero and null.
	fresh := engine.NewLocalVars(2)
	if v, err := fresh.GetI32(1); err != nil || v != 0 {
		t.Errorf("unset GetI32 = %d, %v; want 0", v, err)
	}
	if v, err := fresh.GetRef(0); err != nil || v != nil {
		t.Errorf("unset GetRef = %v, %v; want nil", v, err)
	}
}

func TestLocalVarsWideValuesSplitHighFirst(t *testing.T) {
	l := engine.NewLocalVars(2)
	if err := l.SetI64(0, 0x0000000100000002); err != nil {
		t.Fatalf("SetI64: %v", err)
	}

	hi, _ := l.GetSlot(0)
	lo, _ := l.GetSlot(1)
	if hi != engine.Numeric(1) || lo != engine.Numeric(2) {
		t.Errorf("slots = %v, %v; want 1, 2", hi, lo)
	}
	if v, err := l.GetI64(0); err != nil || v != 0x0000000100000002 {
		t.Errorf("GetI64 = %#x, %v", v, err)
	}

	if err := l.SetF64(0, math.Pi); err != nil {
		t.Fatalf("SetF64: %v", err)
	}
	if v, err := l.GetF64(0); err != nil || v != math.Pi {
		t.Errorf("GetF64 = %v, %v; want pi", v, err)
	}
}

func TestLocalVarsErrors(t *testing.T) {
	l := engine.NewLocalVars(2)

	tests := []struct {
		name string
		op   func() error
		kind jerrors.Kind
	}{
		{"set past end", func() error { return l.SetI32(2, 1) }, jerrors.KindLocalIndexOutOfRange},
		{"negative index", func() error { _, err := l.GetI32(-1); return err }, jerrors.KindLocalIndexOutOfRange},
		{"long straddles end", func() error { return l.SetI64(1, 1) }, jerrors.KindLocalIndexOutOfRange},
		{"double read straddles end", func() error { _, err := l.GetF64(1); return err }, jerrors.KindLocalIndexOutOfRange},
		{"int from reference", func() error {
			_ = l.SetRef(0, "x")
			_, err := l.GetI32(0)
			return err
		}, jerrors.KindTypeMismatch},
		{"reference from int", func() error {
			_ = l.SetI32(1, 7)
			_, err := l.GetRef(1)
			return err
		}, jerrors.KindTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantKind(t, tt.op(), jerrors.PhaseRuntime, tt.kind)
		})
	}
}

func TestOperandStackPushPop(t *testing.T) {
	s := engine.NewOperandStack(6)

	if err := s.PushI32(-7); err != nil {
		t.Fatal(err)
	}
	if err := s.PushI64(math.MinInt64); err != nil {
		t.Fatal(err)
	}
	if err := s.PushF64(-0.5); err != nil {
		t.Fatal(err)
	}
	if err := s.PushRef(nil); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 6 {
		t.Fatalf("Len = %d, want 6", s.Len())
	}

	if r, err := s.PopRef(); err != nil || r != nil {
		t.Errorf("PopRef = %v, %v; want nil", r, err)
	}
	if v, err := s.PopF64(); err != nil || v != -0.5 {
		t.Errorf("PopF64 = %v, %v", v, err)
	}
	if v, err := s.PopI64(); err != nil || v != math.MinInt64 {
		t.Errorf("PopI64 = %v, %v", v, err)
	}
	if v, err := s.PopI32(); err != nil || v != -7 {
		t.Errorf("PopI32 = %v, %v", v, err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestOperandStackBounds(t *testing.T) {
	s := engine.NewOperandStack(1)

	wantKind(t, func() error { _, err := s.PopI32(); return err }(), jerrors.PhaseRuntime, jerrors.KindStackUnderflow)
	if err := s.PushF32(2); err != nil {
		t.Fatal(err)
	}
	wantKind(t, s.PushI32(1), jerrors.PhaseRuntime, jerrors.KindStackOverflow)

	// A long needs two free slots; a failed push leaves nothing behind.
	s = engine.NewOperandStack(1)
	wantKind(t, s.PushI64(1), jerrors.PhaseRuntime, jerrors.KindStackOverflow)
	if s.Len() != 0 {
		t.Errorf("Len after failed wide push = %d, want 0", s.Len())
	}
}

func TestOperandStackTypeMismatchKeepsValue(t *testing.T) {
	s := engine.NewOperandStack(2)
	if err := s.PushRef("obj"); err != nil {
		t.Fatal(err)
	}

	_, err := s.PopI32()
	wantKind(t, err, jerrors.PhaseRuntime, jerrors.KindTypeMismatch)

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
	if r, err := s.PopRef(); err != nil || r != "obj" {
		t.Errorf("PopRef = %v, %v; want obj", r, err)
	}
}

func TestOperandStackPeekAndSnapshot(t *testing.T) {
	s := engine.NewOperandStack(3)
	_ = s.PushI32(1)
	_ = s.PushI32(2)

	top, err := s.PeekSlot(0)
	if err != nil || top != engine.Numeric(2) {
		t.Errorf("PeekSlot(0) = %v, %v; want 2", top, err)
	}
	below, err := s.PeekSlot(1)
	if err != nil || below != engine.Numeric(1) {
		t.Errorf("PeekSlot(1) = %v, %v; want 1", below, err)
	}
	_, err = s.PeekSlot(2)
	wantKind(t, err, jerrors.PhaseRuntime, jerrors.KindStackUnderflow)

	snap := s.Snapshot()
	if len(snap) != 2 || snap[0] != engine.Numeric(1) || snap[1] != engine.Numeric(2) {
		t.Errorf("Snapshot = %v, want [1 2]", snap)
	}
	if s.Cap() != 3 {
		t.Errorf("Cap = %d, want 3", s.Cap())
	}
}

func TestArgs(t *testing.T) {
	args := engine.Args{}.I32(1).I64(-1).F32(0.5).Ref("r")
	if len(args) != 5 {
		t.Fatalf("len = %d, want 5", len(args))
	}
	if args[1] != engine.Numeric(0xFFFFFFFF) || args[2] != engine.Numeric(0xFFFFFFFF) {
		t.Errorf("long halves = %v %v", args[1], args[2])
	}
	if args[3] != engine.Numeric(math.Float32bits(0.5)) {
		t.Errorf("float slot = %v", args[3])
	}
	if ref, ok := args[4].(engine.RefSlot); !ok || ref.Ref != "r" {
		t.Errorf("ref slot = %v", args[4])
	}
}

func TestOperandStackWideValuesSplitHighFirst(t *testing.T) {
	s := engine.NewOperandStack(2)
	if err := s.PushI64(0x0000000100000002); err != nil {
		t.Fatalf("PushI64: %v", err)
	}
	snap := s.Snapshot()
	if len(snap) != 2 || snap[0] != engine.Numeric(1) || snap[1] != engine.Numeric(2) {
		t.Errorf("Snapshot = %v, want [1 2]", snap)
	}
	if v, err := s.PopI64(); err != nil || v != 0x0000000100000002 {
		t.Errorf("PopI64 = %#x, %v", v, err)
	}
}

func TestArgsSharedPrefix(t *testing.T) {
	base := engine.Args{}.I32(1).I32(2).I32(3)
	a := base.I32(4)
	b := base.I32(5)
	c := base.I64(6)
	if len(base) != 3 {
		t.Fatalf("len(base) = %d, want 3", len(base))
	}
	if a[3] != engine.Numeric(4) {
		t.Errorf("a[3] = %v, want 4", a[3])
	}
	if b[3] != engine.Numeric(5) {
		t.Errorf("b[3] = %v, want 5", b[3])
	}
	if len(c) != 5 || c[3] != engine.Numeric(0) || c[4] != engine.Numeric(6) {
		t.Errorf("c = %v, want [1 2 3 0 6]", c)
	}
}

func TestValueKindWidth(t *testing.T) {
	tests := []struct {
		kind  engine.ValueKind
		width int
		name  string
	}{
		{engine.KindVoid, 0, "void"},
		{engine.KindInt, 1, "int"},
		{engine.KindLong, 2, "long"},
		{engine.KindFloat, 1, "float"},
		{engine.KindDouble, 2, "double"},
		{engine.KindRef, 1, "reference"},
	}
	for _, tt := range tests {
		if tt.kind.Width() != tt.width {
			t.Errorf("%s.Width() = %d, want %d", tt.kind, tt.kind.Width(), tt.width)
		}
		if tt.kind.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.kind.String(), tt.name)
		}
	}
}

func TestThread(t *testing.T) {
	th := engine.NewThread(2)
	if th.MaxDepth() != 2 {
		t.Errorf("MaxDepth = %d, want 2", th.MaxDepth())
	}
	if _, ok := th.CurrentFrame(); ok {
		t.Error("empty thread has a current frame")
	}

	m := &engine.Method{Code: code(1, 1)}
	for i := 0; i < 2; i++ {
		f, err := engine.NewFrame(m, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := th.PushFrame(f); err != nil {
			t.Fatalf("PushFrame %d: %v", i, err)
		}
	}
	f, _ := engine.NewFrame(m, nil)
	wantKind(t, th.PushFrame(f), jerrors.PhaseRuntime, jerrors.KindStackOverflow)

	for i := 0; i < 2; i++ {
		if _, err := th.PopFrame(); err != nil {
			t.Fatalf("PopFrame %d: %v", i, err)
		}
	}
	_, err := th.PopFrame()
	wantKind(t, err, jerrors.PhaseRuntime, jerrors.KindStackUnderflow)

	if engine.NewThread(0).MaxDepth() != engine.DefaultMaxDepth {
		t.Error("non-positive depth should select the default")
	}
}
