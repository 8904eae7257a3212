package classfile

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/jvm-runtime/errors"
	"github.com/wippyai/jvm-runtime/internal/binary"
)

// ErrInvalidMagic matches, via errors.Is, any error caused by input that
// does not start with 0xCAFEBABE.
var ErrInvalidMagic error = &errors.Error{Phase: errors.PhaseDecode, Kind: errors.KindMalformedHeader}

// Parse decodes a complete class file. The whole input must be consumed;
// no partial Class is returned on error.
func Parse(data []byte) (*Class, error) {
	r := binary.NewReader(data)

	magic, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	if magic != Magic {
		return nil, errors.MalformedHeader(magic)
	}

	c := &Class{}
	if c.MinorVersion, err = r.ReadU16(); err != nil {
		return nil, fmt.Errorf("minor version: %w", err)
	}
	if c.MajorVersion, err = r.ReadU16(); err != nil {
		return nil, fmt.Errorf("major version: %w", err)
	}
	if c.ConstantPool, err = readConstantPool(r); err != nil {
		return nil, fmt.Errorf("constant pool: %w", err)
	}

	flags, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("access flags: %w", err)
	}
	c.AccessFlags = AccessFlags(flags)
	if c.ThisClass, err = r.ReadU16(); err != nil {
		return nil, fmt.Errorf("this_class: %w", err)
	}
	if c.SuperClass, err = r.ReadU16(); err != nil {
		return nil, fmt.Errorf("super_class: %w", err)
	}
	if c.Interfaces, err = r.ReadU16s(); err != nil {
		return nil, fmt.Errorf("interfaces: %w", err)
	}
	if c.Fields, err = readMembers(r, c.ConstantPool, "fields"); err != nil {
		return nil, err
	}
	if c.Methods, err = readMembers(r, c.ConstantPool, "methods"); err != nil {
		return nil, err
	}
	if c.Attributes, err = readAttributes(r, c.ConstantPool, 0); err != nil {
		return nil, fmt.Errorf("class attributes: %w", err)
	}

	if r.Len() != 0 {
		return nil, errors.New(errors.PhaseDecode, errors.KindLengthMismatch).
			Path("class").
			Value(r.Len()).
			Detail("%d trailing bytes after offset %d", r.Len(), r.Position()).
			Build()
	}

	if ce := Logger().Check(zap.DebugLevel, "decoded class"); ce != nil {
		name, _ := c.Name()
		ce.Write(
			zap.String("class", name),
			zap.String("version", c.Version()),
			zap.Int("constants", c.ConstantPool.Count()),
			zap.Int("fields", len(c.Fields)),
			zap.Int("methods", len(c.Methods)),
		)
	}
	return c, nil
}

func readMembers(r *binary.Reader, pool *ConstantPool, kind string) ([]*Member, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("%s count: %w", kind, err)
	}
	members := make([]*Member, 0, count)
	for i := 0; i < int(count); i++ {
		m, err := readMember(r, pool)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", kind, i, err)
		}
		members = append(members, m)
	}
	return members, nil
}

func readMember(r *binary.Reader, pool *ConstantPool) (*Member, error) {
	flags, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	m := &Member{AccessFlags: AccessFlags(flags)}
	if m.NameIndex, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if m.DescriptorIndex, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if m.Attributes, err = readAttributes(r, pool, 0); err != nil {
		return nil, err
	}
	return m, nil
}
