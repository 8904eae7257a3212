package classfile_test

import (
	"github.com/wippyai/jvm-runtime/internal/binary"
)

func utf8Const(w *binary.Writer, s string) {
	w.U8(1)
	w.U16(uint16(len(s)))
	w.WriteBytes([]byte(s))
}

// header writes magic, version 52.0 and the constant pool count.
func header(w *binary.Writer, poolCount uint16) {
	w.U32(0xCAFEBABE)
	w.U16(0)
	w.U16(52)
	w.U16(poolCount)
}

// emptyBody is access flags, this, super, and zero interfaces, fields,
// methods and attributes.
var emptyBody = make([]byte, 14)

func attr(nameIndex uint16, body []byte) []byte {
	w := binary.NewWriter()
	w.U16(nameIndex)
	w.U32(uint32(len(body)))
	w.WriteBytes(body)
	return w.Bytes()
}

func codeBody(maxStack, maxLocals uint16, code []byte, nested ...[]byte) []byte {
	w := binary.NewWriter()
	w.U16(maxStack)
	w.U16(maxLocals)
	w.U32(uint32(len(code)))
	w.WriteBytes(code)
	w.U16(0)
	w.U16(uint16(len(nested)))
	for _, a := range nested {
		w.WriteBytes(a)
	}
	return w.Bytes()
}

// Pool indices used by classWithMethodAttrs.
const (
	idxCode  = 1
	idxM     = 2
	idxVoid  = 3
	idxBogus = 4
	idxFoo   = 5
	idxClass = 6
	idxLNT   = 7
	idxSrc   = 8
	idxFile  = 9
)

// classWithMethodAttrs returns class Foo with one static method m()V
// carrying the given raw attribute records, and a SourceFile attribute.
func classWithMethodAttrs(attrs ...[]byte) []byte {
	w := binary.NewWriter()
	header(w, 10)
	utf8Const(w, "Code")
	utf8Const(w, "m")
	utf8Const(w, "()V")
	utf8Const(w, "Bogus")
	utf8Const(w, "Foo")
	w.U8(7)
	w.U16(idxFoo)
	utf8Const(w, "LineNumberTable")
	utf8Const(w, "SourceFile")
	utf8Const(w, "Foo.java")

	w.U16(0x0021)
	w.U16(idxClass)
	w.U16(0)
	w.U16(0)
	w.U16(0)

	w.U16(1)
	w.U16(0x0009)
	w.U16(idxM)
	w.U16(idxVoid)
	w.U16(uint16(len(attrs)))
	for _, a := range attrs {
		w.WriteBytes(a)
	}

	w.U16(1)
	w.WriteBytes(attr(idxSrc, []byte{0x00, idxFile}))
	return w.Bytes()
}

// richPool writes a pool exercising every constant tag, including wide
// entries and non-ASCII modified UTF-8 strings.
func richPool(w *binary.Writer) {
	header(w, 24)
	utf8Const(w, "Rich")

	// 2: Class Rich, 3: Integer -2, 4: Float 1.5
	w.U8(7)
	w.U16(1)
	w.U8(3)
	w.U32(0xFFFFFFFE)
	w.U8(4)
	w.U32(0x3FC00000)

	// 5-6: Long 0x100000002, 7-8: Double 2.5
	w.U8(5)
	w.U64(0x0000000100000002)
	w.U8(6)
	w.U64(0x4004000000000000)

	// 9, 10: name and descriptor, 11: NameAndType
	utf8Const(w, "add")
	utf8Const(w, "(II)I")
	w.U8(12)
	w.U16(9)
	w.U16(10)

	// 12: Methodref, 13: Fieldref, 14: InterfaceMethodref
	for _, tag := range []uint8{10, 9, 11} {
		w.U8(tag)
		w.U16(2)
		w.U16(11)
	}

	// 15: String, 16: MethodHandle, 17: MethodType, 18: InvokeDynamic
	w.U8(8)
	w.U16(9)
	w.U8(15)
	w.U8(6)
	w.U16(12)
	w.U8(16)
	w.U16(10)
	w.U8(18)
	w.U16(0)
	w.U16(11)

	// 19: "\u00e9\u0000" with the two-byte NUL form
	w.U8(1)
	w.U16(4)
	w.WriteBytes([]byte{0xC3, 0xA9, 0xC0, 0x80})

	// 20, 21: java/lang/Object, 22: Code
	utf8Const(w, "java/lang/Object")
	w.U8(7)
	w.U16(20)
	utf8Const(w, "Code")

	// 23: U+1F600 as a surrogate pair
	w.U8(1)
	w.U16(6)
	w.WriteBytes([]byte{0xED, 0xA0, 0xBD, 0xED, 0xB8, 0x80})
}

func richClass() []byte {
	w := binary.NewWriter()
	richPool(w)
	w.U16(0x0031)
	w.U16(2)
	w.U16(21)
	w.U16(0)
	w.U16(0)
	// add(II)I: iload_0 iload_1 iadd ireturn
	w.U16(1)
	w.U16(0x0009)
	w.U16(9)
	w.U16(10)
	w.U16(1)
	w.WriteBytes(attr(22, codeBody(2, 2, []byte{0x1a, 0x1b, 0x60, 0xac})))
	w.U16(0)
	return w.Bytes()
}
