package engine

import (
	"math"

	"github.com/wippyai/jvm-runtime/errors"
)

// lane pops and pushes values of one computational type.
type lane[T any] struct {
	pop  func(*OperandStack) (T, error)
	push func(*OperandStack, T) error
}

var (
	intLane    = lane[int32]{(*OperandStack).PopI32, (*OperandStack).PushI32}
	longLane   = lane[int64]{(*OperandStack).PopI64, (*OperandStack).PushI64}
	floatLane  = lane[float32]{(*OperandStack).PopF32, (*OperandStack).PushF32}
	doubleLane = lane[float64]{(*OperandStack).PopF64, (*OperandStack).PushF64}
)

func binaryOp[T any](op Opcode, l lane[T], fn func(a, b T) (T, error)) func() Instruction {
	return op0(op, func(f *Frame) error {
		b, err := l.pop(f.Stack)
		if err != nil {
			return err
		}
		a, err := l.pop(f.Stack)
		if err != nil {
			return err
		}
		r, err := fn(a, b)
		if err != nil {
			return err
		}
		return l.push(f.Stack, r)
	})
}

func convertOp[A, B any](op Opcode, from lane[A], to lane[B], fn func(A) B) func() Instruction {
	return op0(op, func(f *Frame) error {
		v, err := from.pop(f.Stack)
		if err != nil {
			return err
		}
		return to.push(f.Stack, fn(v))
	})
}

func compareOp[T any](op Opcode, l lane[T], fn func(a, b T) int32) func() Instruction {
	return op0(op, func(f *Frame) error {
		b, err := l.pop(f.Stack)
		if err != nil {
			return err
		}
		a, err := l.pop(f.Stack)
		if err != nil {
			return err
		}
		return f.Stack.PushI32(fn(a, b))
	})
}

// shiftLong pops an int shift distance and then the long it applies to.
func shiftLong(op Opcode, fn func(v int64, s uint) int64) func() Instruction {
	return op0(op, func(f *Frame) error {
		s, err := f.Stack.PopI32()
		if err != nil {
			return err
		}
		v, err := f.Stack.PopI64()
		if err != nil {
			return err
		}
		return f.Stack.PushI64(fn(v, uint(s)&0x3f))
	})
}

type number interface {
	int32 | int64 | float32 | float64
}

type integer interface {
	int32 | int64
}

func add[T number](a, b T) (T, error) { return a + b, nil }
func sub[T number](a, b T) (T, error) { return a - b, nil }
func mul[T number](a, b T) (T, error) { return a * b, nil }
func neg[T number](a T) T             { return -a }

func fdiv[T float32 | float64](a, b T) (T, error) { return a / b, nil }

func idiv[T integer](a, b T) (T, error) {
	if b == 0 {
		return 0, errors.Arithmetic("/ by zero")
	}
	return a / b, nil
}

func irem[T integer](a, b T) (T, error) {
	if b == 0 {
		return 0, errors.Arithmetic("/ by zero")
	}
	return a % b, nil
}

func and[T integer](a, b T) (T, error) { return a & b, nil }
func or[T integer](a, b T) (T, error)  { return a | b, nil }
func xor[T integer](a, b T) (T, error) { return a ^ b, nil }

func cmp[T number](a, b T) int32 {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

// fcmp compares floats; nanResult is -1 for the *cmpl and 1 for the
// *cmpg forms.
func fcmp[T float32 | float64](nanResult int32) func(a, b T) int32 {
	return func(a, b T) int32 {
		if a != a || b != b {
			return nanResult
		}
		return cmp(a, b)
	}
}

// toInt32 and toInt64 narrow floating point values the way the JVM does:
// NaN becomes 0 and out of range values saturate.
func toInt32(v float64) int32 {
	switch {
	case v != v:
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int32(v)
}

func toInt64(v float64) int64 {
	switch {
	case v != v:
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}

func registerMath(t *[256]func() Instruction) {
	t[OpIadd] = binaryOp(OpIadd, intLane, add[int32])
	t[OpLadd] = binaryOp(OpLadd, longLane, add[int64])
	t[OpFadd] = binaryOp(OpFadd, floatLane, add[float32])
	t[OpDadd] = binaryOp(OpDadd, doubleLane, add[float64])
	t[OpIsub] = binaryOp(OpIsub, intLane, sub[int32])
	t[OpLsub] = binaryOp(OpLsub, longLane, sub[int64])
	t[OpFsub] = binaryOp(OpFsub, floatLane, sub[float32])
	t[OpDsub] = binaryOp(OpDsub, doubleLane, sub[float64])
	t[OpImul] = binaryOp(OpImul, intLane, mul[int32])
	t[OpLmul] = binaryOp(OpLmul, longLane, mul[int64])
	t[OpFmul] = binaryOp(OpFmul, floatLane, mul[float32])
	t[OpDmul] = binaryOp(OpDmul, doubleLane, mul[float64])
	t[OpIdiv] = binaryOp(OpIdiv, intLane, idiv[int32])
	t[OpLdiv] = binaryOp(OpLdiv, longLane, idiv[int64])
	t[OpFdiv] = binaryOp(OpFdiv, floatLane, fdiv[float32])
	t[OpDdiv] = binaryOp(OpDdiv, doubleLane, fdiv[float64])
	t[OpIrem] = binaryOp(OpIrem, intLane, irem[int32])
	t[OpLrem] = binaryOp(OpLrem, longLane, irem[int64])
	t[OpFrem] = binaryOp(OpFrem, floatLane, func(a, b float32) (float32, error) {
		return float32(math.Mod(float64(a), float64(b))), nil
	})
	t[OpDrem] = binaryOp(OpDrem, doubleLane, func(a, b float64) (float64, error) {
		return math.Mod(a, b), nil
	})
	t[OpIneg] = convertOp(OpIneg, intLane, intLane, neg[int32])
	t[OpLneg] = convertOp(OpLneg, longLane, longLane, neg[int64])
	t[OpFneg] = convertOp(OpFneg, floatLane, floatLane, neg[float32])
	t[OpDneg] = convertOp(OpDneg, doubleLane, doubleLane, neg[float64])

	t[OpIshl] = binaryOp(OpIshl, intLane, func(a, b int32) (int32, error) { return a << (b & 0x1f), nil })
	t[OpIshr] = binaryOp(OpIshr, intLane, func(a, b int32) (int32, error) { return a >> (b & 0x1f), nil })
	t[OpIushr] = binaryOp(OpIushr, intLane, func(a, b int32) (int32, error) {
		return int32(uint32(a) >> (b & 0x1f)), nil
	})
	t[OpLshl] = shiftLong(OpLshl, func(v int64, s uint) int64 { return v << s })
	t[OpLshr] = shiftLong(OpLshr, func(v int64, s uint) int64 { return v >> s })
	t[OpLushr] = shiftLong(OpLushr, func(v int64, s uint) int64 { return int64(uint64(v) >> s) })
	t[OpIand] = binaryOp(OpIand, intLane, and[int32])
	t[OpLand] = binaryOp(OpLand, longLane, and[int64])
	t[OpIor] = binaryOp(OpIor, intLane, or[int32])
	t[OpLor] = binaryOp(OpLor, longLane, or[int64])
	t[OpIxor] = binaryOp(OpIxor, intLane, xor[int32])
	t[OpLxor] = binaryOp(OpLxor, longLane, xor[int64])

	t[OpI2l] = convertOp(OpI2l, intLane, longLane, func(v int32) int64 { return int64(v) })
	t[OpI2f] = convertOp(OpI2f, intLane, floatLane, func(v int32) float32 { return float32(v) })
	t[OpI2d] = convertOp(OpI2d, intLane, doubleLane, func(v int32) float64 { return float64(v) })
	t[OpL2i] = convertOp(OpL2i, longLane, intLane, func(v int64) int32 { return int32(v) })
	t[OpL2f] = convertOp(OpL2f, longLane, floatLane, func(v int64) float32 { return float32(v) })
	t[OpL2d] = convertOp(OpL2d, longLane, doubleLane, func(v int64) float64 { return float64(v) })
	t[OpF2i] = convertOp(OpF2i, floatLane, intLane, func(v float32) int32 { return toInt32(float64(v)) })
	t[OpF2l] = convertOp(OpF2l, floatLane, longLane, func(v float32) int64 { return toInt64(float64(v)) })
	t[OpF2d] = convertOp(OpF2d, floatLane, doubleLane, func(v float32) float64 { return float64(v) })
	t[OpD2i] = convertOp(OpD2i, doubleLane, intLane, toInt32)
	t[OpD2l] = convertOp(OpD2l, doubleLane, longLane, toInt64)
	t[OpD2f] = convertOp(OpD2f, doubleLane, floatLane, func(v float64) float32 { return float32(v) })
	t[OpI2b] = convertOp(OpI2b, intLane, intLane, func(v int32) int32 { return int32(int8(v)) })
	t[OpI2c] = convertOp(OpI2c, intLane, intLane, func(v int32) int32 { return int32(uint16(v)) })
	t[OpI2s] = convertOp(OpI2s, intLane, intLane, func(v int32) int32 { return int32(int16(v)) })

	t[OpLcmp] = compareOp(OpLcmp, longLane, cmp[int64])
	t[OpFcmpl] = compareOp(OpFcmpl, floatLane, fcmp[float32](-1))
	t[OpFcmpg] = compareOp(OpFcmpg, floatLane, fcmp[float32](1))
	t[OpDcmpl] = compareOp(OpDcmpl, doubleLane, fcmp[float64](-1))
	t[OpDcmpg] = compareOp(OpDcmpg, doubleLane, fcmp[float64](1))
}
