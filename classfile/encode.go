package classfile

import (
	"fmt"

	"github.com/wippyai/jvm-runtime/errors"
	"github.com/wippyai/jvm-runtime/internal/binary"
)

// Encode serializes the class. For a Class produced by Parse the output is
// identical to the parsed input.
func (c *Class) Encode() ([]byte, error) {
	if c.ConstantPool == nil {
		return nil, errors.InvalidData(errors.PhaseEncode, []string{"class"}, "nil constant pool")
	}

	w := binary.NewWriter()
	w.U32(Magic)
	w.U16(c.MinorVersion)
	w.U16(c.MajorVersion)
	c.ConstantPool.encode(w)
	w.U16(uint16(c.AccessFlags))
	w.U16(c.ThisClass)
	w.U16(c.SuperClass)
	w.U16s(c.Interfaces)

	if err := writeMembers(w, c.ConstantPool, "fields", c.Fields); err != nil {
		return nil, err
	}
	if err := writeMembers(w, c.ConstantPool, "methods", c.Methods); err != nil {
		return nil, err
	}
	if err := writeAttributes(w, c.ConstantPool, c.Attributes); err != nil {
		return nil, fmt.Errorf("class attributes: %w", err)
	}
	return w.Bytes(), nil
}

func writeMembers(w *binary.Writer, pool *ConstantPool, kind string, members []*Member) error {
	w.U16(uint16(len(members)))
	for i, m := range members {
		w.U16(uint16(m.AccessFlags))
		w.U16(m.NameIndex)
		w.U16(m.DescriptorIndex)
		if err := writeAttributes(w, pool, m.Attributes); err != nil {
			return fmt.Errorf("%s[%d]: %w", kind, i, err)
		}
	}
	return nil
}
