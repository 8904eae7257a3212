package classfile

import (
	"fmt"
	"iter"
	"math"

	"github.com/wippyai/jvm-runtime/errors"
	"github.com/wippyai/jvm-runtime/internal/binary"
)

// Constant is one constant pool record. The set of implementations is
// closed; each knows how to read and write its own payload.
type Constant interface {
	Tag() ConstantTag
	read(r *binary.Reader) error
	write(w *binary.Writer)
}

// ConstantUTF8 is a modified UTF-8 string. Raw holds the wire bytes; when
// non-nil it is written verbatim on encode, otherwise Value is encoded.
type ConstantUTF8 struct {
	Value string
	Raw   []byte
}

func (c *ConstantUTF8) Tag() ConstantTag { return TagUTF8 }

func (c *ConstantUTF8) read(r *binary.Reader) error {
	n, err := r.ReadU16()
	if err != nil {
		return err
	}
	raw, err := r.ReadBytes(int(n))
	if err != nil {
		return err
	}
	s, err := DecodeMUTF8(raw)
	if err != nil {
		return err
	}
	c.Value, c.Raw = s, raw
	return nil
}

func (c *ConstantUTF8) write(w *binary.Writer) {
	raw := c.Raw
	if raw == nil {
		raw = EncodeMUTF8(c.Value)
	}
	w.U16(uint16(len(raw)))
	w.WriteBytes(raw)
}

// ConstantInteger is a 32-bit int constant.
type ConstantInteger struct {
	Value int32
}

func (c *ConstantInteger) Tag() ConstantTag { return TagInteger }

func (c *ConstantInteger) read(r *binary.Reader) error {
	v, err := r.ReadU32()
	c.Value = int32(v)
	return err
}

func (c *ConstantInteger) write(w *binary.Writer) { w.U32(uint32(c.Value)) }

// ConstantFloat is a 32-bit IEEE 754 constant.
type ConstantFloat struct {
	Value float32
}

func (c *ConstantFloat) Tag() ConstantTag { return TagFloat }

func (c *ConstantFloat) read(r *binary.Reader) error {
	v, err := r.ReadU32()
	c.Value = math.Float32frombits(v)
	return err
}

func (c *ConstantFloat) write(w *binary.Writer) { w.U32(math.Float32bits(c.Value)) }

// ConstantLong is a 64-bit long constant. It takes two pool indices.
type ConstantLong struct {
	Value int64
}

func (c *ConstantLong) Tag() ConstantTag { return TagLong }

func (c *ConstantLong) read(r *binary.Reader) error {
	v, err := r.ReadU64()
	c.Value = int64(v)
	return err
}

func (c *ConstantLong) write(w *binary.Writer) { w.U64(uint64(c.Value)) }

// ConstantDouble is a 64-bit IEEE 754 constant. It takes two pool indices.
type ConstantDouble struct {
	Value float64
}

func (c *ConstantDouble) Tag() ConstantTag { return TagDouble }

func (c *ConstantDouble) read(r *binary.Reader) error {
	v, err := r.ReadU64()
	c.Value = math.Float64frombits(v)
	return err
}

func (c *ConstantDouble) write(w *binary.Writer) { w.U64(math.Float64bits(c.Value)) }

// ConstantClass names a class or interface through a Utf8 entry.
type ConstantClass struct {
	NameIndex uint16
}

func (c *ConstantClass) Tag() ConstantTag { return TagClass }

func (c *ConstantClass) read(r *binary.Reader) (err error) {
	c.NameIndex, err = r.ReadU16()
	return err
}

func (c *ConstantClass) write(w *binary.Writer) { w.U16(c.NameIndex) }

// ConstantString is a java.lang.String literal.
type ConstantString struct {
	StringIndex uint16
}

func (c *ConstantString) Tag() ConstantTag { return TagString }

func (c *ConstantString) read(r *binary.Reader) (err error) {
	c.StringIndex, err = r.ReadU16()
	return err
}

func (c *ConstantString) write(w *binary.Writer) { w.U16(c.StringIndex) }

// memberRef is the shared payload of field, method and interface method refs.
type memberRef struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (m *memberRef) read(r *binary.Reader) (err error) {
	if m.ClassIndex, err = r.ReadU16(); err != nil {
		return err
	}
	m.NameAndTypeIndex, err = r.ReadU16()
	return err
}

func (m *memberRef) write(w *binary.Writer) {
	w.U16(m.ClassIndex)
	w.U16(m.NameAndTypeIndex)
}

// ConstantFieldRef references a field.
type ConstantFieldRef struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantFieldRef) Tag() ConstantTag            { return TagFieldRef }
func (c *ConstantFieldRef) read(r *binary.Reader) error { return (*memberRef)(c).read(r) }
func (c *ConstantFieldRef) write(w *binary.Writer)      { (*memberRef)(c).write(w) }

// ConstantMethodRef references a class method.
type ConstantMethodRef struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantMethodRef) Tag() ConstantTag            { return TagMethodRef }
func (c *ConstantMethodRef) read(r *binary.Reader) error { return (*memberRef)(c).read(r) }
func (c *ConstantMethodRef) write(w *binary.Writer)      { (*memberRef)(c).write(w) }

// ConstantInterfaceMethodRef references an interface method.
type ConstantInterfaceMethodRef struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *ConstantInterfaceMethodRef) Tag() ConstantTag            { return TagInterfaceMethodRef }
func (c *ConstantInterfaceMethodRef) read(r *binary.Reader) error { return (*memberRef)(c).read(r) }
func (c *ConstantInterfaceMethodRef) write(w *binary.Writer)      { (*memberRef)(c).write(w) }

// ConstantNameAndType pairs a member name with its descriptor.
type ConstantNameAndType struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *ConstantNameAndType) Tag() ConstantTag { return TagNameAndType }

func (c *ConstantNameAndType) read(r *binary.Reader) (err error) {
	if c.NameIndex, err = r.ReadU16(); err != nil {
		return err
	}
	c.DescriptorIndex, err = r.ReadU16()
	return err
}

func (c *ConstantNameAndType) write(w *binary.Writer) {
	w.U16(c.NameIndex)
	w.U16(c.DescriptorIndex)
}

// ConstantMethodHandle is a method handle with its reference kind (1-9).
type ConstantMethodHandle struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

func (c *ConstantMethodHandle) Tag() ConstantTag { return TagMethodHandle }

func (c *ConstantMethodHandle) read(r *binary.Reader) (err error) {
	if c.ReferenceKind, err = r.ReadU8(); err != nil {
		return err
	}
	c.ReferenceIndex, err = r.ReadU16()
	return err
}

func (c *ConstantMethodHandle) write(w *binary.Writer) {
	w.U8(c.ReferenceKind)
	w.U16(c.ReferenceIndex)
}

// ConstantMethodType is a method descriptor constant.
type ConstantMethodType struct {
	DescriptorIndex uint16
}

func (c *ConstantMethodType) Tag() ConstantTag { return TagMethodType }

func (c *ConstantMethodType) read(r *binary.Reader) (err error) {
	c.DescriptorIndex, err = r.ReadU16()
	return err
}

func (c *ConstantMethodType) write(w *binary.Writer) { w.U16(c.DescriptorIndex) }

// ConstantInvokeDynamic is a dynamically computed call site.
type ConstantInvokeDynamic struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *ConstantInvokeDynamic) Tag() ConstantTag { return TagInvokeDynamic }

func (c *ConstantInvokeDynamic) read(r *binary.Reader) (err error) {
	if c.BootstrapMethodAttrIndex, err = r.ReadU16(); err != nil {
		return err
	}
	c.NameAndTypeIndex, err = r.ReadU16()
	return err
}

func (c *ConstantInvokeDynamic) write(w *binary.Writer) {
	w.U16(c.BootstrapMethodAttrIndex)
	w.U16(c.NameAndTypeIndex)
}

func newConstant(tag ConstantTag) (Constant, bool) {
	switch tag {
	case TagUTF8:
		return &ConstantUTF8{}, true
	case TagInteger:
		return &ConstantInteger{}, true
	case TagFloat:
		return &ConstantFloat{}, true
	case TagLong:
		return &ConstantLong{}, true
	case TagDouble:
		return &ConstantDouble{}, true
	case TagClass:
		return &ConstantClass{}, true
	case TagString:
		return &ConstantString{}, true
	case TagFieldRef:
		return &ConstantFieldRef{}, true
	case TagMethodRef:
		return &ConstantMethodRef{}, true
	case TagInterfaceMethodRef:
		return &ConstantInterfaceMethodRef{}, true
	case TagNameAndType:
		return &ConstantNameAndType{}, true
	case TagMethodHandle:
		return &ConstantMethodHandle{}, true
	case TagMethodType:
		return &ConstantMethodType{}, true
	case TagInvokeDynamic:
		return &ConstantInvokeDynamic{}, true
	}
	return nil, false
}

// isWide reports whether c occupies two pool indices.
func isWide(c Constant) bool {
	tag := c.Tag()
	return tag == TagLong || tag == TagDouble
}

// ConstantPool is the 1-based constant table of a class. Index 0 and the
// index following a Long or Double hold no entry.
type ConstantPool struct {
	entries []Constant
}

// NewConstantPool returns an empty pool for building classes in memory.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{entries: []Constant{nil}}
}

// Count returns the constant_pool_count value: one more than the highest
// index in use.
func (p *ConstantPool) Count() int {
	return len(p.entries)
}

// Get returns the entry at index i. It reports false for index 0, indices
// out of range and wide placeholders.
func (p *ConstantPool) Get(i int) (Constant, bool) {
	if i <= 0 || i >= len(p.entries) || p.entries[i] == nil {
		return nil, false
	}
	return p.entries[i], true
}

// All iterates the populated entries in index order.
func (p *ConstantPool) All() iter.Seq2[int, Constant] {
	return func(yield func(int, Constant) bool) {
		for i, c := range p.entries {
			if c == nil {
				continue
			}
			if !yield(i, c) {
				return
			}
		}
	}
}

// Add appends c and returns its index. Wide constants also reserve the
// following index.
func (p *ConstantPool) Add(c Constant) uint16 {
	idx := len(p.entries)
	p.entries = append(p.entries, c)
	if isWide(c) {
		p.entries = append(p.entries, nil)
	}
	return uint16(idx)
}

func (p *ConstantPool) lookup(i int) (Constant, error) {
	c, ok := p.Get(i)
	if !ok {
		return nil, errors.InvalidIndex(errors.PhaseDecode, "constant pool", i, len(p.entries))
	}
	return c, nil
}

func lookupAs[T Constant](p *ConstantPool, i int, want ConstantTag) (T, error) {
	var zero T
	c, err := p.lookup(i)
	if err != nil {
		return zero, err
	}
	t, ok := c.(T)
	if !ok {
		path := []string{fmt.Sprintf("constant_pool[%d]", i)}
		return zero, errors.TypeMismatch(errors.PhaseDecode, path, want.String(), c.Tag().String())
	}
	return t, nil
}

// UTF8 returns the string at index i, which must be a Utf8 entry.
func (p *ConstantPool) UTF8(i int) (string, error) {
	c, err := lookupAs[*ConstantUTF8](p, i, TagUTF8)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// ClassName resolves a Class entry to its internal name (for example
// "java/lang/Object").
func (p *ConstantPool) ClassName(i int) (string, error) {
	c, err := lookupAs[*ConstantClass](p, i, TagClass)
	if err != nil {
		return "", err
	}
	return p.UTF8(int(c.NameIndex))
}

// NameAndType resolves a NameAndType entry.
func (p *ConstantPool) NameAndType(i int) (name, descriptor string, err error) {
	c, err := lookupAs[*ConstantNameAndType](p, i, TagNameAndType)
	if err != nil {
		return "", "", err
	}
	if name, err = p.UTF8(int(c.NameIndex)); err != nil {
		return "", "", err
	}
	if descriptor, err = p.UTF8(int(c.DescriptorIndex)); err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}

// FindUTF8 returns the index of the first Utf8 entry equal to s.
func (p *ConstantPool) FindUTF8(s string) (uint16, bool) {
	for i, c := range p.All() {
		if u, ok := c.(*ConstantUTF8); ok && u.Value == s {
			return uint16(i), true
		}
	}
	return 0, false
}

// Describe renders entry i for listings, resolving references one level.
func (p *ConstantPool) Describe(i int) string {
	c, ok := p.Get(i)
	if !ok {
		return "<none>"
	}
	switch c := c.(type) {
	case *ConstantUTF8:
		return fmt.Sprintf("%q", c.Value)
	case *ConstantInteger:
		return fmt.Sprintf("%d", c.Value)
	case *ConstantFloat:
		return fmt.Sprintf("%gf", c.Value)
	case *ConstantLong:
		return fmt.Sprintf("%dl", c.Value)
	case *ConstantDouble:
		return fmt.Sprintf("%gd", c.Value)
	case *ConstantClass:
		return p.utf8OrIndex(c.NameIndex)
	case *ConstantString:
		return fmt.Sprintf("%q", p.utf8OrIndex(c.StringIndex))
	case *ConstantFieldRef:
		return p.describeRef(c.ClassIndex, c.NameAndTypeIndex)
	case *ConstantMethodRef:
		return p.describeRef(c.ClassIndex, c.NameAndTypeIndex)
	case *ConstantInterfaceMethodRef:
		return p.describeRef(c.ClassIndex, c.NameAndTypeIndex)
	case *ConstantNameAndType:
		return p.utf8OrIndex(c.NameIndex) + ":" + p.utf8OrIndex(c.DescriptorIndex)
	case *ConstantMethodHandle:
		return fmt.Sprintf("kind=%d #%d", c.ReferenceKind, c.ReferenceIndex)
	case *ConstantMethodType:
		return p.utf8OrIndex(c.DescriptorIndex)
	case *ConstantInvokeDynamic:
		name, desc, err := p.NameAndType(int(c.NameAndTypeIndex))
		if err != nil {
			return fmt.Sprintf("#%d:#%d", c.BootstrapMethodAttrIndex, c.NameAndTypeIndex)
		}
		return fmt.Sprintf("#%d:%s:%s", c.BootstrapMethodAttrIndex, name, desc)
	}
	return "?"
}

func (p *ConstantPool) utf8OrIndex(i uint16) string {
	s, err := p.UTF8(int(i))
	if err != nil {
		return fmt.Sprintf("#%d", i)
	}
	return s
}

func (p *ConstantPool) describeRef(class, nat uint16) string {
	owner, err := p.ClassName(int(class))
	if err != nil {
		owner = fmt.Sprintf("#%d", class)
	}
	name, desc, err := p.NameAndType(int(nat))
	if err != nil {
		return fmt.Sprintf("%s.#%d", owner, nat)
	}
	return owner + "." + name + ":" + desc
}

// readConstantPool decodes constant_pool_count and the entries that follow.
func readConstantPool(r *binary.Reader) (*ConstantPool, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	if count == 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, []string{"constant_pool"}, "constant_pool_count must be at least 1")
	}

	p := &ConstantPool{entries: make([]Constant, 1, count)}
	for i := 1; i < int(count); i++ {
		tag, err := r.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("constant_pool[%d] tag: %w", i, err)
		}
		c, ok := newConstant(ConstantTag(tag))
		if !ok {
			return nil, errors.UnknownConstantTag(tag, i)
		}
		if err := c.read(r); err != nil {
			return nil, fmt.Errorf("constant_pool[%d] %s: %w", i, c.Tag(), err)
		}
		p.entries = append(p.entries, c)
		if isWide(c) {
			if i+1 >= int(count) {
				return nil, errors.InvalidData(errors.PhaseDecode,
					[]string{fmt.Sprintf("constant_pool[%d]", i)},
					c.Tag().String()+" constant needs two indices")
			}
			p.entries = append(p.entries, nil)
			i++
		}
	}
	return p, nil
}

func (p *ConstantPool) encode(w *binary.Writer) {
	w.U16(uint16(len(p.entries)))
	for _, c := range p.All() {
		w.U8(uint8(c.Tag()))
		c.write(w)
	}
}
