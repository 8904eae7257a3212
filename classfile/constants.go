package classfile

import "fmt"

// Magic is the class file magic number.
const Magic uint32 = 0xCAFEBABE

// ConstantTag identifies a constant pool record kind on the wire.
type ConstantTag uint8

// Constant pool tags.
const (
	TagUTF8               ConstantTag = 1
	TagInteger            ConstantTag = 3
	TagFloat              ConstantTag = 4
	TagLong               ConstantTag = 5 // occupies two pool indices
	TagDouble             ConstantTag = 6 // occupies two pool indices
	TagClass              ConstantTag = 7
	TagString             ConstantTag = 8
	TagFieldRef           ConstantTag = 9
	TagMethodRef          ConstantTag = 10
	TagInterfaceMethodRef ConstantTag = 11
	TagNameAndType        ConstantTag = 12
	TagMethodHandle       ConstantTag = 15
	TagMethodType         ConstantTag = 16
	TagInvokeDynamic      ConstantTag = 18
)

var tagNames = map[ConstantTag]string{
	TagUTF8:               "Utf8",
	TagInteger:            "Integer",
	TagFloat:              "Float",
	TagLong:               "Long",
	TagDouble:             "Double",
	TagClass:              "Class",
	TagString:             "String",
	TagFieldRef:           "Fieldref",
	TagMethodRef:          "Methodref",
	TagInterfaceMethodRef: "InterfaceMethodref",
	TagNameAndType:        "NameAndType",
	TagMethodHandle:       "MethodHandle",
	TagMethodType:         "MethodType",
	TagInvokeDynamic:      "InvokeDynamic",
}

func (t ConstantTag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Attribute names understood by the decoder. Anything else decodes to
// UnknownAttribute.
const (
	AttrCode               = "Code"
	AttrConstantValue      = "ConstantValue"
	AttrExceptions         = "Exceptions"
	AttrInnerClasses       = "InnerClasses"
	AttrSignature          = "Signature"
	AttrStackMapTable      = "StackMapTable"
	AttrLineNumberTable    = "LineNumberTable"
	AttrLocalVariableTable = "LocalVariableTable"
	AttrSourceFile         = "SourceFile"
)

// AccessFlags is the access_flags bit set of a class, field or method.
// Some bits are reused with different meanings per context (0x0020 is
// ACC_SUPER on classes and ACC_SYNCHRONIZED on methods).
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSuper        AccessFlags = 0x0020
	AccSynchronized AccessFlags = 0x0020
	AccVolatile     AccessFlags = 0x0040
	AccBridge       AccessFlags = 0x0040
	AccTransient    AccessFlags = 0x0080
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
	AccModule       AccessFlags = 0x8000
)

// Has reports whether all bits of flag are set.
func (f AccessFlags) Has(flag AccessFlags) bool {
	return f&flag == flag
}

type flagName struct {
	flag AccessFlags
	name string
}

var (
	classFlagNames = []flagName{
		{AccPublic, "public"}, {AccFinal, "final"}, {AccInterface, "interface"},
		{AccAbstract, "abstract"}, {AccSynthetic, "synthetic"},
		{AccAnnotation, "annotation"}, {AccEnum, "enum"}, {AccModule, "module"},
	}
	fieldFlagNames = []flagName{
		{AccPublic, "public"}, {AccPrivate, "private"}, {AccProtected, "protected"},
		{AccStatic, "static"}, {AccFinal, "final"}, {AccVolatile, "volatile"},
		{AccTransient, "transient"}, {AccSynthetic, "synthetic"}, {AccEnum, "enum"},
	}
	methodFlagNames = []flagName{
		{AccPublic, "public"}, {AccPrivate, "private"}, {AccProtected, "protected"},
		{AccStatic, "static"}, {AccFinal, "final"}, {AccSynchronized, "synchronized"},
		{AccBridge, "bridge"}, {AccVarargs, "varargs"}, {AccNative, "native"},
		{AccAbstract, "abstract"}, {AccStrict, "strictfp"}, {AccSynthetic, "synthetic"},
	}
)

func keywords(f AccessFlags, names []flagName) []string {
	out := make([]string, 0, 4)
	for _, n := range names {
		if f.Has(n.flag) {
			out = append(out, n.name)
		}
	}
	return out
}

// ClassKeywords returns the modifiers of a class in declaration order.
func (f AccessFlags) ClassKeywords() []string { return keywords(f, classFlagNames) }

// FieldKeywords returns the modifiers of a field in declaration order.
func (f AccessFlags) FieldKeywords() []string { return keywords(f, fieldFlagNames) }

// MethodKeywords returns the modifiers of a method in declaration order.
func (f AccessFlags) MethodKeywords() []string { return keywords(f, methodFlagNames) }

var majorVersions = map[uint16]string{
	45: "1.1", 46: "1.2", 47: "1.3", 48: "1.4",
	49: "5", 50: "6", 51: "7", 52: "8",
	53: "9", 54: "10", 55: "11", 56: "12",
	57: "13", 58: "14", 59: "15", 60: "16",
	61: "17", 62: "18", 63: "19", 64: "20",
	65: "21", 66: "22", 67: "23", 68: "24",
}

// JavaVersion maps a class file major version to the platform release that
// introduced it, or "" if unknown.
func JavaVersion(major uint16) string {
	return majorVersions[major]
}

func (f AccessFlags) String() string {
	return fmt.Sprintf("0x%04X", uint16(f))
}
