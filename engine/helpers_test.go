package engine_test

import (
	"errors"
	"testing"

	"github.com/wippyai/jvm-runtime/classfile"
	jerrors "github.com/wippyai/jvm-runtime/errors"
)

func code(maxStack, maxLocals uint16, bytecode ...byte) *classfile.CodeAttribute {
	return &classfile.CodeAttribute{MaxStack: maxStack, MaxLocals: maxLocals, Code: bytecode}
}

func wantKind(t *testing.T, err error, phase jerrors.Phase, kind jerrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if !errors.Is(err, &jerrors.Error{Phase: phase, Kind: kind}) {
		t.Fatalf("expected [%s] %s, got %v", phase, kind, err)
	}
}

// mathPool holds a static method reference Fact.fact(I)I at index
// factRef plus a few loadable constants.
type mathPool struct {
	pool     *classfile.ConstantPool
	factRef  uint16
	intConst uint16
	strConst uint16
	long     uint16
	dbl      uint16
	class    uint16
	fieldRef uint16
}

func newMathPool() mathPool {
	p := classfile.NewConstantPool()
	className := p.Add(&classfile.ConstantUTF8{Value: "Fact"})
	class := p.Add(&classfile.ConstantClass{NameIndex: className})
	name := p.Add(&classfile.ConstantUTF8{Value: "fact"})
	desc := p.Add(&classfile.ConstantUTF8{Value: "(I)I"})
	nat := p.Add(&classfile.ConstantNameAndType{NameIndex: name, DescriptorIndex: desc})
	ref := p.Add(&classfile.ConstantMethodRef{ClassIndex: class, NameAndTypeIndex: nat})
	field := p.Add(&classfile.ConstantFieldRef{ClassIndex: class, NameAndTypeIndex: nat})
	intConst := p.Add(&classfile.ConstantInteger{Value: 1 << 20})
	text := p.Add(&classfile.ConstantUTF8{Value: "hello"})
	str := p.Add(&classfile.ConstantString{StringIndex: text})
	long := p.Add(&classfile.ConstantLong{Value: -1 << 40})
	dbl := p.Add(&classfile.ConstantDouble{Value: 0.25})
	return mathPool{
		pool:     p,
		factRef:  ref,
		intConst: intConst,
		strConst: str,
		long:     long,
		dbl:      dbl,
		class:    class,
		fieldRef: field,
	}
}
