// Package classfile decodes and encodes JVM class files.
//
// Parse turns the raw bytes of a .class file into a Class: version, constant
// pool, access flags, this/super/interfaces, fields, methods and attributes.
// Decoding is strict. Every attribute must consume exactly its declared
// length, the input must end exactly after the class attributes, and any
// structural problem aborts the parse with an *errors.Error.
//
// # Parsing
//
//	data, _ := os.ReadFile("Example.class")
//	class, err := classfile.Parse(data)
//	if errors.Is(err, classfile.ErrInvalidMagic) {
//	    // not a class file
//	}
//
// # Constant Pool
//
// The pool is 1-based. Long and Double constants occupy two indices and the
// second one is empty:
//
//	name, err := class.ConstantPool.ClassName(int(class.ThisClass))
//	s, err := class.ConstantPool.UTF8(7)
//
// Strings use modified UTF-8 (two-byte NUL, surrogate pairs for
// supplementary characters). Unpaired surrogates decode to U+FFFD. The
// original bytes are kept in ConstantUTF8.Raw.
//
// # Attributes
//
// Code, ConstantValue, Exceptions, InnerClasses, Signature, StackMapTable,
// LineNumberTable, LocalVariableTable and SourceFile are decoded into typed
// values. Anything else is preserved as UnknownAttribute.
//
//	m, _ := class.FindMethod("add", "(II)I")
//	code, ok := m.Code()
//
// # Encoding
//
// Encode writes a Class back out. Parse followed by Encode reproduces the
// input byte for byte. Classes can also be assembled in memory with
// NewConstantPool and Add; attributes with a zero NameIndex look their name
// up in the pool.
package classfile
