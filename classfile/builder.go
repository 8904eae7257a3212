package classfile

// Builder assembles a Class in memory. Constants are deduplicated, and
// attribute name constants are added as attributes are attached, so the
// result encodes without further setup.
type Builder struct {
	class *Class
}

// NewBuilder starts a public class named name extending super. An empty
// super leaves super_class at 0, as for java/lang/Object itself.
func NewBuilder(name, super string) *Builder {
	b := &Builder{class: &Class{
		MajorVersion: 52,
		ConstantPool: NewConstantPool(),
		AccessFlags:  AccPublic | AccSuper,
	}}
	b.class.ThisClass = b.Class(name)
	if super != "" {
		b.class.SuperClass = b.Class(super)
	}
	return b
}

// SetVersion sets the class file version.
func (b *Builder) SetVersion(major, minor uint16) *Builder {
	b.class.MajorVersion, b.class.MinorVersion = major, minor
	return b
}

// SetAccessFlags replaces the class access flags.
func (b *Builder) SetAccessFlags(flags AccessFlags) *Builder {
	b.class.AccessFlags = flags
	return b
}

// Pool returns the constant pool being built.
func (b *Builder) Pool() *ConstantPool { return b.class.ConstantPool }

func (b *Builder) find(match func(Constant) bool) (uint16, bool) {
	for i, c := range b.class.ConstantPool.All() {
		if match(c) {
			return uint16(i), true
		}
	}
	return 0, false
}

func (b *Builder) intern(c Constant, match func(Constant) bool) uint16 {
	if i, ok := b.find(match); ok {
		return i
	}
	return b.class.ConstantPool.Add(c)
}

// UTF8 returns the index of a Utf8 constant holding s.
func (b *Builder) UTF8(s string) uint16 {
	if i, ok := b.class.ConstantPool.FindUTF8(s); ok {
		return i
	}
	return b.class.ConstantPool.Add(&ConstantUTF8{Value: s})
}

// Class returns the index of a Class constant naming name.
func (b *Builder) Class(name string) uint16 {
	n := b.UTF8(name)
	return b.intern(&ConstantClass{NameIndex: n}, func(c Constant) bool {
		cc, ok := c.(*ConstantClass)
		return ok && cc.NameIndex == n
	})
}

// StringConstant returns the index of a String constant for s.
func (b *Builder) StringConstant(s string) uint16 {
	n := b.UTF8(s)
	return b.intern(&ConstantString{StringIndex: n}, func(c Constant) bool {
		cs, ok := c.(*ConstantString)
		return ok && cs.StringIndex == n
	})
}

// Integer returns the index of an Integer constant.
func (b *Builder) Integer(v int32) uint16 {
	return b.intern(&ConstantInteger{Value: v}, func(c Constant) bool {
		ci, ok := c.(*ConstantInteger)
		return ok && ci.Value == v
	})
}

// Long returns the index of a Long constant.
func (b *Builder) Long(v int64) uint16 {
	return b.intern(&ConstantLong{Value: v}, func(c Constant) bool {
		cl, ok := c.(*ConstantLong)
		return ok && cl.Value == v
	})
}

// Double returns the index of a Double constant.
func (b *Builder) Double(v float64) uint16 {
	return b.intern(&ConstantDouble{Value: v}, func(c Constant) bool {
		cd, ok := c.(*ConstantDouble)
		return ok && cd.Value == v
	})
}

// NameAndType returns the index of a NameAndType constant.
func (b *Builder) NameAndType(name, descriptor string) uint16 {
	n, d := b.UTF8(name), b.UTF8(descriptor)
	return b.intern(&ConstantNameAndType{NameIndex: n, DescriptorIndex: d}, func(c Constant) bool {
		nt, ok := c.(*ConstantNameAndType)
		return ok && nt.NameIndex == n && nt.DescriptorIndex == d
	})
}

// MethodRef returns the index of a Methodref constant.
func (b *Builder) MethodRef(class, name, descriptor string) uint16 {
	cls, nat := b.Class(class), b.NameAndType(name, descriptor)
	return b.intern(&ConstantMethodRef{ClassIndex: cls, NameAndTypeIndex: nat}, func(c Constant) bool {
		mr, ok := c.(*ConstantMethodRef)
		return ok && mr.ClassIndex == cls && mr.NameAndTypeIndex == nat
	})
}

// FieldRef returns the index of a Fieldref constant.
func (b *Builder) FieldRef(class, name, descriptor string) uint16 {
	cls, nat := b.Class(class), b.NameAndType(name, descriptor)
	return b.intern(&ConstantFieldRef{ClassIndex: cls, NameAndTypeIndex: nat}, func(c Constant) bool {
		fr, ok := c.(*ConstantFieldRef)
		return ok && fr.ClassIndex == cls && fr.NameAndTypeIndex == nat
	})
}

// AddField declares a field.
func (b *Builder) AddField(flags AccessFlags, name, descriptor string) *Member {
	m := &Member{AccessFlags: flags, NameIndex: b.UTF8(name), DescriptorIndex: b.UTF8(descriptor)}
	b.class.Fields = append(b.class.Fields, m)
	return m
}

// AddMethod declares a method with the given body. A nil code declares
// a method without a Code attribute, as for abstract and native methods.
func (b *Builder) AddMethod(flags AccessFlags, name, descriptor string, maxStack, maxLocals uint16, code []byte) *Member {
	m := &Member{AccessFlags: flags, NameIndex: b.UTF8(name), DescriptorIndex: b.UTF8(descriptor)}
	if code != nil {
		m.Attributes = append(m.Attributes, &CodeAttribute{
			NameIndex: b.UTF8(AttrCode),
			MaxStack:  maxStack,
			MaxLocals: maxLocals,
			Code:      code,
		})
	}
	b.class.Methods = append(b.class.Methods, m)
	return m
}

// SetSourceFile attaches a SourceFile attribute.
func (b *Builder) SetSourceFile(name string) *Builder {
	b.class.Attributes = append(b.class.Attributes, &SourceFileAttribute{
		NameIndex:       b.UTF8(AttrSourceFile),
		SourceFileIndex: b.UTF8(name),
	})
	return b
}

// Build returns the assembled class. The builder must not be used
// afterwards.
func (b *Builder) Build() *Class {
	return b.class
}
