package runtime

import (
	"strings"

	"github.com/wippyai/jvm-runtime/classfile"
)

// MethodInfo summarizes a method for listings.
type MethodInfo struct {
	Name       string
	Descriptor string
	Flags      classfile.AccessFlags
	ArgSlots   int
	HasCode    bool
}

// Static reports whether the method is static.
func (m MethodInfo) Static() bool { return m.Flags.Has(classfile.AccStatic) }

// Runnable reports whether Invoke can run the method without a receiver.
func (m MethodInfo) Runnable() bool { return m.HasCode && m.Static() }

// Signature renders modifiers, name and descriptor, e.g.
// "public static add(II)I".
func (m MethodInfo) Signature() string {
	parts := append(m.Flags.MethodKeywords(), m.Name+m.Descriptor)
	return strings.Join(parts, " ")
}

// Methods lists the methods of a class in declaration order.
func (r *Runtime) Methods(className string) ([]MethodInfo, error) {
	class, err := r.LoadClass(className)
	if err != nil {
		return nil, err
	}
	return ListMethods(class)
}

// ListMethods summarizes the methods of class.
func ListMethods(class *classfile.Class) ([]MethodInfo, error) {
	pool := class.ConstantPool
	out := make([]MethodInfo, 0, len(class.Methods))
	for _, m := range class.Methods {
		name, err := m.Name(pool)
		if err != nil {
			return nil, err
		}
		desc, err := m.Descriptor(pool)
		if err != nil {
			return nil, err
		}
		info := MethodInfo{Name: name, Descriptor: desc, Flags: m.AccessFlags}
		if d, err := classfile.ParseMethodDescriptor(desc); err == nil {
			info.ArgSlots = d.ArgSlots()
		}
		_, info.HasCode = m.Code()
		out = append(out, info)
	}
	return out, nil
}
