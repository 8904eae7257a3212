package classfile

import (
	"fmt"

	"github.com/wippyai/jvm-runtime/errors"
)

// Class is a decoded class file. A Class returned by Parse is not mutated
// by this package and may be shared between goroutines.
type Class struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool *ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []*Member
	Methods      []*Member
	Attributes   []Attribute
}

// Member is a field_info or method_info record.
type Member struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []Attribute
}

// Name resolves the member name.
func (m *Member) Name(pool *ConstantPool) (string, error) {
	return pool.UTF8(int(m.NameIndex))
}

// Descriptor resolves the member type descriptor.
func (m *Member) Descriptor(pool *ConstantPool) (string, error) {
	return pool.UTF8(int(m.DescriptorIndex))
}

// Code returns the method body, if any.
func (m *Member) Code() (*CodeAttribute, bool) {
	return findAttribute[*CodeAttribute](m.Attributes)
}

// Name returns the internal name of this class.
func (c *Class) Name() (string, error) {
	return c.ConstantPool.ClassName(int(c.ThisClass))
}

// SuperName returns the internal name of the superclass, or "" for
// java/lang/Object.
func (c *Class) SuperName() (string, error) {
	if c.SuperClass == 0 {
		return "", nil
	}
	return c.ConstantPool.ClassName(int(c.SuperClass))
}

// InterfaceNames resolves the direct superinterfaces.
func (c *Class) InterfaceNames() ([]string, error) {
	names := make([]string, len(c.Interfaces))
	for i, idx := range c.Interfaces {
		name, err := c.ConstantPool.ClassName(int(idx))
		if err != nil {
			return nil, fmt.Errorf("interfaces[%d]: %w", i, err)
		}
		names[i] = name
	}
	return names, nil
}

// Version returns "major.minor" with the platform release when known.
func (c *Class) Version() string {
	if v := JavaVersion(c.MajorVersion); v != "" {
		return fmt.Sprintf("%d.%d (Java %s)", c.MajorVersion, c.MinorVersion, v)
	}
	return fmt.Sprintf("%d.%d", c.MajorVersion, c.MinorVersion)
}

// SourceFile returns the SourceFile attribute value.
func (c *Class) SourceFile() (string, bool) {
	a, ok := findAttribute[*SourceFileAttribute](c.Attributes)
	if !ok {
		return "", false
	}
	s, err := c.ConstantPool.UTF8(int(a.SourceFileIndex))
	if err != nil {
		return "", false
	}
	return s, true
}

// MethodsNamed returns every method called name, in declaration order.
func (c *Class) MethodsNamed(name string) []*Member {
	var out []*Member
	for _, m := range c.Methods {
		if n, err := m.Name(c.ConstantPool); err == nil && n == name {
			out = append(out, m)
		}
	}
	return out
}

// FindMethod looks a method up by name and descriptor. An empty descriptor
// matches when exactly one method has the name.
func (c *Class) FindMethod(name, descriptor string) (*Member, error) {
	candidates := c.MethodsNamed(name)
	if descriptor == "" {
		switch len(candidates) {
		case 0:
			return nil, errors.NotFound(errors.PhaseRuntime, "method", name)
		case 1:
			return candidates[0], nil
		default:
			return nil, errors.InvalidInput(errors.PhaseRuntime,
				fmt.Sprintf("method %q is overloaded (%d candidates); give a descriptor", name, len(candidates)))
		}
	}
	for _, m := range candidates {
		if d, err := m.Descriptor(c.ConstantPool); err == nil && d == descriptor {
			return m, nil
		}
	}
	return nil, errors.NotFound(errors.PhaseRuntime, "method", name+descriptor)
}
