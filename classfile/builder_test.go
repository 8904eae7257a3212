package classfile_test

import (
	"testing"

	"github.com/wippyai/jvm-runtime/classfile"
)

func TestBuilderRoundTrip(t *testing.T) {
	b := classfile.NewBuilder("demo/Calc", "java/lang/Object")
	add := b.MethodRef("demo/Calc", "add", "(II)I")
	if again := b.MethodRef("demo/Calc", "add", "(II)I"); again != add {
		t.Errorf("MethodRef not deduplicated: %d then %d", add, again)
	}
	long := b.Long(1 << 33)
	b.StringConstant("hi")
	b.AddField(classfile.AccPrivate|classfile.AccStatic, "count", "I")
	b.AddMethod(classfile.AccPublic|classfile.AccStatic, "add", "(II)I", 2, 2, []byte{0x1a, 0x1b, 0x60, 0xac})
	b.AddMethod(classfile.AccPublic|classfile.AccNative, "clock", "()J", 0, 0, nil)
	b.SetSourceFile("Calc.java")
	built := b.Build()

	data, err := built.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	c, err := classfile.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if name, _ := c.Name(); name != "demo/Calc" {
		t.Errorf("Name() = %q", name)
	}
	if super, _ := c.SuperName(); super != "java/lang/Object" {
		t.Errorf("SuperName() = %q", super)
	}
	if src, ok := c.SourceFile(); !ok || src != "Calc.java" {
		t.Errorf("SourceFile() = %q, %v", src, ok)
	}
	if len(c.Fields) != 1 || len(c.Methods) != 2 {
		t.Fatalf("fields=%d methods=%d", len(c.Fields), len(c.Methods))
	}

	m, err := c.FindMethod("add", "(II)I")
	if err != nil {
		t.Fatalf("FindMethod: %v", err)
	}
	code, ok := m.Code()
	if !ok || code.MaxLocals != 2 || len(code.Code) != 4 {
		t.Errorf("add Code = %+v, %v", code, ok)
	}
	native, err := c.FindMethod("clock", "")
	if err != nil {
		t.Fatalf("FindMethod clock: %v", err)
	}
	if _, ok := native.Code(); ok {
		t.Error("native method has a Code attribute")
	}

	lc, ok := c.ConstantPool.Get(int(long))
	if !ok {
		t.Fatalf("Long constant %d missing", long)
	}
	if v, ok := lc.(*classfile.ConstantLong); !ok || v.Value != 1<<33 {
		t.Errorf("constant %d = %#v", long, lc)
	}

	again, err := c.Encode()
	if err != nil {
		t.Fatalf("re-Encode: %v", err)
	}
	if string(again) != string(data) {
		t.Error("decoded builder output does not re-encode identically")
	}
}

func TestBuilderRootClass(t *testing.T) {
	c := classfile.NewBuilder("java/lang/Object", "").Build()
	if c.SuperClass != 0 {
		t.Errorf("SuperClass = %d, want 0", c.SuperClass)
	}
	if super, err := c.SuperName(); err != nil || super != "" {
		t.Errorf("SuperName() = %q, %v", super, err)
	}
}
