package values

import (
	"math"
)

type numKind uint8

const (
	kindSigned numKind = iota + 1
	kindUnsigned
	kindFloat
)

// num is a single numeric value in its widest exact representation.
// Only the field selected by k is meaningful.
type num struct {
	k numKind
	i int64
	u uint64
	f float64
}

func kindOf[T Number]() numKind {
	var zero T
	switch any(zero).(type) {
	case int8, int16, int32, int64:
		return kindSigned
	case uint8, uint16, uint32, uint64:
		return kindUnsigned
	default:
		return kindFloat
	}
}

func load[T Number](k numKind, v T) num {
	switch k {
	case kindSigned:
		return num{k: k, i: int64(v)}
	case kindUnsigned:
		return num{k: k, u: uint64(v)}
	default:
		return num{k: k, f: float64(v)}
	}
}

// store converts x to T. The caller guarantees x is within the range of T
// and, for integer T, integral.
func store[T Number](x num) T {
	switch x.k {
	case kindSigned:
		return T(x.i)
	case kindUnsigned:
		return T(x.u)
	default:
		return T(x.f)
	}
}

func (x num) float() float64 {
	switch x.k {
	case kindSigned:
		return float64(x.i)
	case kindUnsigned:
		return float64(x.u)
	default:
		return x.f
	}
}

func (x num) isNaN() bool {
	return x.k == kindFloat && math.IsNaN(x.f)
}

// limitsOf returns the smallest and largest values of T.
func limitsOf[T Number]() (num, num) {
	var zero T
	switch any(zero).(type) {
	case int8:
		return num{k: kindSigned, i: math.MinInt8}, num{k: kindSigned, i: math.MaxInt8}
	case int16:
		return num{k: kindSigned, i: math.MinInt16}, num{k: kindSigned, i: math.MaxInt16}
	case int32:
		return num{k: kindSigned, i: math.MinInt32}, num{k: kindSigned, i: math.MaxInt32}
	case int64:
		return num{k: kindSigned, i: math.MinInt64}, num{k: kindSigned, i: math.MaxInt64}
	case uint8:
		return num{k: kindUnsigned}, num{k: kindUnsigned, u: math.MaxUint8}
	case uint16:
		return num{k: kindUnsigned}, num{k: kindUnsigned, u: math.MaxUint16}
	case uint32:
		return num{k: kindUnsigned}, num{k: kindUnsigned, u: math.MaxUint32}
	case uint64:
		return num{k: kindUnsigned}, num{k: kindUnsigned, u: math.MaxUint64}
	case float32:
		return num{k: kindFloat, f: -math.MaxFloat32}, num{k: kindFloat, f: math.MaxFloat32}
	default:
		return num{k: kindFloat, f: -math.MaxFloat64}, num{k: kindFloat, f: math.MaxFloat64}
	}
}

// cmpNum compares two values exactly across kinds. NaN compares equal to
// everything, so range checks let it through untouched.
func cmpNum(a, b num) int {
	switch {
	case a.k == kindFloat && b.k == kindFloat:
		return cmpFloat(a.f, b.f)
	case a.k == kindFloat:
		return cmpFloatTo(a.f, b)
	case b.k == kindFloat:
		return -cmpFloatTo(b.f, a)
	case a.k == kindSigned && b.k == kindSigned:
		return cmpInt(a.i, b.i)
	case a.k == kindUnsigned && b.k == kindUnsigned:
		return cmpInt(a.u, b.u)
	case a.k == kindSigned:
		if a.i < 0 {
			return -1
		}
		return cmpInt(uint64(a.i), b.u)
	default:
		if b.i < 0 {
			return 1
		}
		return cmpInt(a.u, uint64(b.i))
	}
}

func cmpInt[T int64 | uint64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// cmpFloatTo compares a float against an integer value without rounding
// the integer through float64.
func cmpFloatTo(f float64, x num) int {
	if math.IsNaN(f) {
		return 0
	}

	if x.k == kindSigned {
		if f < -0x1p63 {
			return -1
		}
		if f >= 0x1p63 {
			return 1
		}
		t := math.Trunc(f)
		if c := cmpInt(int64(t), x.i); c != 0 {
			return c
		}

		return cmpFloat(f, t)
	}

	if f < 0 {
		return -1
	}
	if f >= 0x1p64 {
		return 1
	}
	t := math.Trunc(f)
	if c := cmpInt(uint64(t), x.u); c != 0 {
		return c
	}

	return cmpFloat(f, t)
}

// cmpOrdered is cmpNum with a total order on NaN: NaN equals NaN and sorts
// above every number.
func cmpOrdered(a, b num) int {
	an, bn := a.isNaN(), b.isNaN()
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	default:
		return cmpNum(a, b)
	}
}

// convertNum converts x to T, rounding half away from zero for integer T and
// clamping to the range of T. NaN converts to fill for integer T.
func convertNum[T Number](x num, fill T) T {
	dk := kindOf[T]()
	if x.k == kindFloat && dk != kindFloat {
		if math.IsNaN(x.f) {
			return fill
		}
		x.f = math.Round(x.f)
	}
	if dk == kindFloat && x.k == kindFloat && math.IsInf(x.f, 0) {
		return T(x.f)
	}

	lo, hi := limitsOf[T]()
	if cmpNum(x, lo) < 0 {
		return store[T](lo)
	}
	if cmpNum(x, hi) > 0 {
		return store[T](hi)
	}

	return store[T](x)
}

// fitsExactly reports whether x converts to T and back without change.
func fitsExactly[T Number](x num) bool {
	if x.isNaN() || (x.k == kindFloat && math.IsInf(x.f, 0)) {
		return kindOf[T]() == kindFloat
	}

	lo, hi := limitsOf[T]()
	if cmpNum(x, lo) < 0 || cmpNum(x, hi) > 0 {
		return false
	}
	if x.k == kindFloat && kindOf[T]() != kindFloat && x.f != math.Trunc(x.f) {
		return false
	}

	return cmpNum(load(kindOf[T](), store[T](x)), x) == 0
}

// scalarNum loads a Go numeric value of any type.
func scalarNum(v any) (num, bool) {
	switch x := v.(type) {
	case int8:
		return num{k: kindSigned, i: int64(x)}, true
	case int16:
		return num{k: kindSigned, i: int64(x)}, true
	case int32:
		return num{k: kindSigned, i: int64(x)}, true
	case int64:
		return num{k: kindSigned, i: x}, true
	case int:
		return num{k: kindSigned, i: int64(x)}, true
	case uint8:
		return num{k: kindUnsigned, u: uint64(x)}, true
	case uint16:
		return num{k: kindUnsigned, u: uint64(x)}, true
	case uint32:
		return num{k: kindUnsigned, u: uint64(x)}, true
	case uint64:
		return num{k: kindUnsigned, u: x}, true
	case uint:
		return num{k: kindUnsigned, u: uint64(x)}, true
	case float32:
		return num{k: kindFloat, f: float64(x)}, true
	case float64:
		return num{k: kindFloat, f: x}, true
	case Buffer:
		if x.Len() == 0 {
			return num{}, false
		}
		at, ok := numReader(x.data)
		if !ok {
			return num{}, false
		}

		return at(0), true
	default:
		return num{}, false
	}
}

// numReader returns an accessor loading element i of a numeric slice.
func numReader(data any) (func(int) num, bool) {
	switch s := data.(type) {
	case []int8:
		return readerOf(s), true
	case []int16:
		return readerOf(s), true
	case []int32:
		return readerOf(s), true
	case []int64:
		return readerOf(s), true
	case []uint8:
		return readerOf(s), true
	case []uint16:
		return readerOf(s), true
	case []uint32:
		return readerOf(s), true
	case []uint64:
		return readerOf(s), true
	case []float32:
		return readerOf(s), true
	case []float64:
		return readerOf(s), true
	default:
		return nil, false
	}
}

func readerOf[T Number](s []T) func(int) num {
	k := kindOf[T]()
	return func(i int) num { return load(k, s[i]) }
}

// numWriter returns a setter storing a value at index i of a numeric slice,
// converting with convertNum against the default fill of the slice type.
func numWriter(b Buffer) (func(int, num), bool) {
	switch s := b.data.(type) {
	case []int8:
		return writerOf(s, fillOf[int8](b)), true
	case []int16:
		return writerOf(s, fillOf[int16](b)), true
	case []int32:
		return writerOf(s, fillOf[int32](b)), true
	case []int64:
		return writerOf(s, fillOf[int64](b)), true
	case []uint8:
		return writerOf(s, fillOf[uint8](b)), true
	case []uint16:
		return writerOf(s, fillOf[uint16](b)), true
	case []uint32:
		return writerOf(s, fillOf[uint32](b)), true
	case []uint64:
		return writerOf(s, fillOf[uint64](b)), true
	case []float32:
		return writerOf(s, fillOf[float32](b)), true
	case []float64:
		return writerOf(s, fillOf[float64](b)), true
	default:
		return nil, false
	}
}

func writerOf[T Number](s []T, fill T) func(int, num) {
	return func(i int, x num) { s[i] = convertNum(x, fill) }
}

// fitsType reports whether x is exactly representable in the element type of b.
func fitsType(b Buffer, x num) bool {
	switch b.data.(type) {
	case []int8:
		return fitsExactly[int8](x)
	case []int16:
		return fitsExactly[int16](x)
	case []int32:
		return fitsExactly[int32](x)
	case []int64:
		return fitsExactly[int64](x)
	case []uint8:
		return fitsExactly[uint8](x)
	case []uint16:
		return fitsExactly[uint16](x)
	case []uint32:
		return fitsExactly[uint32](x)
	case []uint64:
		return fitsExactly[uint64](x)
	case []float32:
		return fitsExactly[float32](x)
	case []float64:
		return fitsExactly[float64](x)
	default:
		return false
	}
}
