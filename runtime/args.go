package runtime

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/wippyai/jvm-runtime/classfile"
	"github.com/wippyai/jvm-runtime/engine"
	"github.com/wippyai/jvm-runtime/errors"
)

// ParseArgs converts textual arguments to initial locals for a method with
// the given descriptor. Integers accept 0x, 0o and 0b prefixes, boolean
// takes true/false or 1/0, char takes a single character or its code,
// String parameters take the text itself and other references take
// "null".
func ParseArgs(descriptor string, values []string) (engine.Args, error) {
	desc, err := classfile.ParseMethodDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	if len(values) != len(desc.Params) {
		return nil, errors.InvalidInput(errors.PhaseRuntime,
			fmt.Sprintf("%s takes %d arguments, got %d", descriptor, len(desc.Params), len(values)))
	}
	args := make(engine.Args, 0, desc.ArgSlots())
	for i, p := range desc.Params {
		args, err = appendArg(args, p, values[i])
		if err != nil {
			return nil, errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
				Path(fmt.Sprintf("args[%d]", i)).
				Value(values[i]).
				Cause(err).
				Detail("cannot use %q as %s", values[i], p).
				Build()
		}
	}
	return args, nil
}

func appendArg(args engine.Args, t classfile.FieldType, s string) (engine.Args, error) {
	if t.IsReference() {
		switch {
		case s == "null":
			return args.Ref(nil), nil
		case t.Dims == 0 && t.Class == "java/lang/String":
			return args.Ref(s), nil
		}
		return nil, fmt.Errorf("only null is accepted for %s", t)
	}

	switch t.Base {
	case 'Z':
		switch s {
		case "true", "1":
			return args.I32(1), nil
		case "false", "0":
			return args.I32(0), nil
		}
		return nil, fmt.Errorf("want true or false")
	case 'C':
		if r, size := utf8.DecodeRuneInString(s); size == len(s) && size > 0 && r <= 0xFFFF && r != utf8.RuneError {
			return args.I32(r), nil
		}
		v, err := strconv.ParseUint(s, 0, 16)
		return args.I32(int32(v)), err
	case 'B':
		v, err := strconv.ParseInt(s, 0, 8)
		return args.I32(int32(v)), err
	case 'S':
		v, err := strconv.ParseInt(s, 0, 16)
		return args.I32(int32(v)), err
	case 'I':
		v, err := strconv.ParseInt(s, 0, 32)
		return args.I32(int32(v)), err
	case 'J':
		v, err := strconv.ParseInt(s, 0, 64)
		return args.I64(v), err
	case 'F':
		v, err := strconv.ParseFloat(s, 32)
		return args.F32(float32(v)), err
	case 'D':
		v, err := strconv.ParseFloat(s, 64)
		return args.F64(v), err
	}
	return nil, fmt.Errorf("unsupported parameter type %s", t)
}
