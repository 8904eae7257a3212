package classfile

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/jvm-runtime/errors"
	"github.com/wippyai/jvm-runtime/internal/binary"
)

// Attribute is one attribute_info record. Every variant keeps the constant
// pool index of its name so that re-encoding reproduces the input.
type Attribute interface {
	Name() string
	nameIndex() uint16
	read(r *binary.Reader, pool *ConstantPool, depth int) error
	write(w *binary.Writer, pool *ConstantPool) error
}

// CodeAttribute holds a method body.
type CodeAttribute struct {
	NameIndex      uint16
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionHandler
	Attributes     []Attribute
}

// ExceptionHandler is one exception_table entry. CatchType 0 catches
// everything.
type ExceptionHandler struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

func (a *CodeAttribute) Name() string      { return AttrCode }
func (a *CodeAttribute) nameIndex() uint16 { return a.NameIndex }

func (a *CodeAttribute) read(r *binary.Reader, pool *ConstantPool, depth int) (err error) {
	if a.MaxStack, err = r.ReadU16(); err != nil {
		return err
	}
	if a.MaxLocals, err = r.ReadU16(); err != nil {
		return err
	}
	n, err := r.ReadU32()
	if err != nil {
		return err
	}
	if a.Code, err = r.ReadBytes(int(n)); err != nil {
		return fmt.Errorf("code: %w", err)
	}

	count, err := r.ReadU16()
	if err != nil {
		return err
	}
	a.ExceptionTable = make([]ExceptionHandler, count)
	for i := range a.ExceptionTable {
		h := &a.ExceptionTable[i]
		for _, f := range []*uint16{&h.StartPC, &h.EndPC, &h.HandlerPC, &h.CatchType} {
			if *f, err = r.ReadU16(); err != nil {
				return fmt.Errorf("exception_table[%d]: %w", i, err)
			}
		}
	}

	a.Attributes, err = readAttributes(r, pool, depth+1)
	return err
}

func (a *CodeAttribute) write(w *binary.Writer, pool *ConstantPool) error {
	w.U16(a.MaxStack)
	w.U16(a.MaxLocals)
	w.U32(uint32(len(a.Code)))
	w.WriteBytes(a.Code)
	w.U16(uint16(len(a.ExceptionTable)))
	for _, h := range a.ExceptionTable {
		w.U16(h.StartPC)
		w.U16(h.EndPC)
		w.U16(h.HandlerPC)
		w.U16(h.CatchType)
	}
	return writeAttributes(w, pool, a.Attributes)
}

// LineNumbers returns the entries of every LineNumberTable attached to
// the code, in attribute order.
func (a *CodeAttribute) LineNumbers() []LineNumber {
	var out []LineNumber
	for _, attr := range a.Attributes {
		if t, ok := attr.(*LineNumberTableAttribute); ok {
			out = append(out, t.Entries...)
		}
	}
	return out
}

// LineAt returns the source line for pc, or 0 if unknown.
func (a *CodeAttribute) LineAt(pc int) int {
	line, best := 0, -1
	for _, e := range a.LineNumbers() {
		if int(e.StartPC) <= pc && int(e.StartPC) > best {
			line, best = int(e.LineNumber), int(e.StartPC)
		}
	}
	return line
}

// LocalVariables returns the entries of every LocalVariableTable attached
// to the code.
func (a *CodeAttribute) LocalVariables() []LocalVariable {
	var out []LocalVariable
	for _, attr := range a.Attributes {
		if t, ok := attr.(*LocalVariableTableAttribute); ok {
			out = append(out, t.Entries...)
		}
	}
	return out
}

// ConstantValueAttribute gives a static field its initial value.
type ConstantValueAttribute struct {
	NameIndex  uint16
	ValueIndex uint16
}

func (a *ConstantValueAttribute) Name() string      { return AttrConstantValue }
func (a *ConstantValueAttribute) nameIndex() uint16 { return a.NameIndex }

func (a *ConstantValueAttribute) read(r *binary.Reader, _ *ConstantPool, _ int) (err error) {
	a.ValueIndex, err = r.ReadU16()
	return err
}

func (a *ConstantValueAttribute) write(w *binary.Writer, _ *ConstantPool) error {
	w.U16(a.ValueIndex)
	return nil
}

// ExceptionsAttribute lists the checked exceptions a method declares.
type ExceptionsAttribute struct {
	NameIndex           uint16
	ExceptionIndexTable []uint16
}

func (a *ExceptionsAttribute) Name() string      { return AttrExceptions }
func (a *ExceptionsAttribute) nameIndex() uint16 { return a.NameIndex }

func (a *ExceptionsAttribute) read(r *binary.Reader, _ *ConstantPool, _ int) (err error) {
	a.ExceptionIndexTable, err = r.ReadU16s()
	return err
}

func (a *ExceptionsAttribute) write(w *binary.Writer, _ *ConstantPool) error {
	w.U16s(a.ExceptionIndexTable)
	return nil
}

// InnerClass is one InnerClasses entry.
type InnerClass struct {
	InnerClassInfoIndex uint16
	OuterClassInfoIndex uint16
	InnerNameIndex      uint16
	AccessFlags         AccessFlags
}

// InnerClassesAttribute records nested class relationships.
type InnerClassesAttribute struct {
	NameIndex uint16
	Classes   []InnerClass
}

func (a *InnerClassesAttribute) Name() string      { return AttrInnerClasses }
func (a *InnerClassesAttribute) nameIndex() uint16 { return a.NameIndex }

func (a *InnerClassesAttribute) read(r *binary.Reader, _ *ConstantPool, _ int) error {
	count, err := r.ReadU16()
	if err != nil {
		return err
	}
	a.Classes = make([]InnerClass, count)
	for i := range a.Classes {
		c := &a.Classes[i]
		var flags uint16
		for _, f := range []*uint16{&c.InnerClassInfoIndex, &c.OuterClassInfoIndex, &c.InnerNameIndex, &flags} {
			if *f, err = r.ReadU16(); err != nil {
				return fmt.Errorf("classes[%d]: %w", i, err)
			}
		}
		c.AccessFlags = AccessFlags(flags)
	}
	return nil
}

func (a *InnerClassesAttribute) write(w *binary.Writer, _ *ConstantPool) error {
	w.U16(uint16(len(a.Classes)))
	for _, c := range a.Classes {
		w.U16(c.InnerClassInfoIndex)
		w.U16(c.OuterClassInfoIndex)
		w.U16(c.InnerNameIndex)
		w.U16(uint16(c.AccessFlags))
	}
	return nil
}

// SignatureAttribute carries a generic signature.
type SignatureAttribute struct {
	NameIndex      uint16
	SignatureIndex uint16
}

func (a *SignatureAttribute) Name() string      { return AttrSignature }
func (a *SignatureAttribute) nameIndex() uint16 { return a.NameIndex }

func (a *SignatureAttribute) read(r *binary.Reader, _ *ConstantPool, _ int) (err error) {
	a.SignatureIndex, err = r.ReadU16()
	return err
}

func (a *SignatureAttribute) write(w *binary.Writer, _ *ConstantPool) error {
	w.U16(a.SignatureIndex)
	return nil
}

// StackMapTableAttribute is kept as raw bytes; frames are not interpreted.
type StackMapTableAttribute struct {
	NameIndex uint16
	Data      []byte
}

func (a *StackMapTableAttribute) Name() string      { return AttrStackMapTable }
func (a *StackMapTableAttribute) nameIndex() uint16 { return a.NameIndex }

func (a *StackMapTableAttribute) read(r *binary.Reader, _ *ConstantPool, _ int) (err error) {
	a.Data, err = r.ReadBytes(r.Len())
	return err
}

func (a *StackMapTableAttribute) write(w *binary.Writer, _ *ConstantPool) error {
	w.WriteBytes(a.Data)
	return nil
}

// LineNumber maps a bytecode offset to a source line.
type LineNumber struct {
	StartPC    uint16
	LineNumber uint16
}

// LineNumberTableAttribute maps code offsets to source lines.
type LineNumberTableAttribute struct {
	NameIndex uint16
	Entries   []LineNumber
}

func (a *LineNumberTableAttribute) Name() string      { return AttrLineNumberTable }
func (a *LineNumberTableAttribute) nameIndex() uint16 { return a.NameIndex }

func (a *LineNumberTableAttribute) read(r *binary.Reader, _ *ConstantPool, _ int) error {
	count, err := r.ReadU16()
	if err != nil {
		return err
	}
	a.Entries = make([]LineNumber, count)
	for i := range a.Entries {
		e := &a.Entries[i]
		if e.StartPC, err = r.ReadU16(); err != nil {
			return fmt.Errorf("entries[%d]: %w", i, err)
		}
		if e.LineNumber, err = r.ReadU16(); err != nil {
			return fmt.Errorf("entries[%d]: %w", i, err)
		}
	}
	return nil
}

func (a *LineNumberTableAttribute) write(w *binary.Writer, _ *ConstantPool) error {
	w.U16(uint16(len(a.Entries)))
	for _, e := range a.Entries {
		w.U16(e.StartPC)
		w.U16(e.LineNumber)
	}
	return nil
}

// LocalVariable describes a local variable's live range and slot.
type LocalVariable struct {
	StartPC         uint16
	Length          uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Index           uint16
}

// LocalVariableTableAttribute is debug information for local variables.
type LocalVariableTableAttribute struct {
	NameIndex uint16
	Entries   []LocalVariable
}

func (a *LocalVariableTableAttribute) Name() string      { return AttrLocalVariableTable }
func (a *LocalVariableTableAttribute) nameIndex() uint16 { return a.NameIndex }

func (a *LocalVariableTableAttribute) read(r *binary.Reader, _ *ConstantPool, _ int) error {
	count, err := r.ReadU16()
	if err != nil {
		return err
	}
	a.Entries = make([]LocalVariable, count)
	for i := range a.Entries {
		e := &a.Entries[i]
		for _, f := range []*uint16{&e.StartPC, &e.Length, &e.NameIndex, &e.DescriptorIndex, &e.Index} {
			if *f, err = r.ReadU16(); err != nil {
				return fmt.Errorf("entries[%d]: %w", i, err)
			}
		}
	}
	return nil
}

func (a *LocalVariableTableAttribute) write(w *binary.Writer, _ *ConstantPool) error {
	w.U16(uint16(len(a.Entries)))
	for _, e := range a.Entries {
		w.U16(e.StartPC)
		w.U16(e.Length)
		w.U16(e.NameIndex)
		w.U16(e.DescriptorIndex)
		w.U16(e.Index)
	}
	return nil
}

// SourceFileAttribute names the source file a class was compiled from.
type SourceFileAttribute struct {
	NameIndex       uint16
	SourceFileIndex uint16
}

func (a *SourceFileAttribute) Name() string      { return AttrSourceFile }
func (a *SourceFileAttribute) nameIndex() uint16 { return a.NameIndex }

func (a *SourceFileAttribute) read(r *binary.Reader, _ *ConstantPool, _ int) (err error) {
	a.SourceFileIndex, err = r.ReadU16()
	return err
}

func (a *SourceFileAttribute) write(w *binary.Writer, _ *ConstantPool) error {
	w.U16(a.SourceFileIndex)
	return nil
}

// UnknownAttribute preserves an attribute the decoder does not model.
type UnknownAttribute struct {
	NameIndex uint16
	AttrName  string
	Data      []byte
}

func (a *UnknownAttribute) Name() string      { return a.AttrName }
func (a *UnknownAttribute) nameIndex() uint16 { return a.NameIndex }

func (a *UnknownAttribute) read(r *binary.Reader, _ *ConstantPool, _ int) (err error) {
	a.Data, err = r.ReadBytes(r.Len())
	return err
}

func (a *UnknownAttribute) write(w *binary.Writer, _ *ConstantPool) error {
	w.WriteBytes(a.Data)
	return nil
}

func newAttribute(name string, idx uint16) Attribute {
	switch name {
	case AttrCode:
		return &CodeAttribute{NameIndex: idx}
	case AttrConstantValue:
		return &ConstantValueAttribute{NameIndex: idx}
	case AttrExceptions:
		return &ExceptionsAttribute{NameIndex: idx}
	case AttrInnerClasses:
		return &InnerClassesAttribute{NameIndex: idx}
	case AttrSignature:
		return &SignatureAttribute{NameIndex: idx}
	case AttrStackMapTable:
		return &StackMapTableAttribute{NameIndex: idx}
	case AttrLineNumberTable:
		return &LineNumberTableAttribute{NameIndex: idx}
	case AttrLocalVariableTable:
		return &LocalVariableTableAttribute{NameIndex: idx}
	case AttrSourceFile:
		return &SourceFileAttribute{NameIndex: idx}
	}
	return &UnknownAttribute{NameIndex: idx, AttrName: name}
}

// readAttributes decodes an attributes_count followed by that many
// attributes. depth counts enclosing Code attributes.
func readAttributes(r *binary.Reader, pool *ConstantPool, depth int) ([]Attribute, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("attributes count: %w", err)
	}
	attrs := make([]Attribute, 0, count)
	for i := 0; i < int(count); i++ {
		a, err := readAttribute(r, pool, depth)
		if err != nil {
			return nil, fmt.Errorf("attributes[%d]: %w", i, err)
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

func readAttribute(r *binary.Reader, pool *ConstantPool, depth int) (Attribute, error) {
	idx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	name, err := pool.UTF8(int(idx))
	if err != nil {
		return nil, fmt.Errorf("attribute name: %w", err)
	}
	length, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("%s length: %w", name, err)
	}
	body, err := r.Sub(int(length))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	if name == AttrCode && depth > 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{name}, "Code attribute nested inside Code")
	}

	a := newAttribute(name, idx)
	if _, unknown := a.(*UnknownAttribute); unknown {
		Logger().Debug("unknown attribute preserved as raw bytes",
			zap.String("name", name),
			zap.Uint32("length", length),
		)
	}
	if err := a.read(body, pool, depth); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if body.Len() != 0 {
		return nil, errors.LengthMismatch([]string{name}, int(length), body.Position())
	}
	return a, nil
}

func writeAttributes(w *binary.Writer, pool *ConstantPool, attrs []Attribute) error {
	w.U16(uint16(len(attrs)))
	for i, a := range attrs {
		if err := writeAttribute(w, pool, a); err != nil {
			return fmt.Errorf("attributes[%d]: %w", i, err)
		}
	}
	return nil
}

func writeAttribute(w *binary.Writer, pool *ConstantPool, a Attribute) error {
	idx := a.nameIndex()
	if idx == 0 {
		var ok bool
		if idx, ok = pool.FindUTF8(a.Name()); !ok {
			return errors.NotFound(errors.PhaseEncode, "attribute name constant", a.Name())
		}
	}

	body := binary.NewWriter()
	if err := a.write(body, pool); err != nil {
		return fmt.Errorf("%s: %w", a.Name(), err)
	}
	w.U16(idx)
	w.U32(uint32(body.Len()))
	w.WriteBytes(body.Bytes())
	return nil
}

// findAttribute returns the first attribute of type T.
func findAttribute[T Attribute](attrs []Attribute) (T, bool) {
	for _, a := range attrs {
		if t, ok := a.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
