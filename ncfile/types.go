package ncfile

import (
	"fmt"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/values"
)

// NativeTypeAtt is the variable attribute that records the in-memory type
// of a variable narrowed on write. See WithNativeTypes.
const NativeTypeAtt = "_NativeType"

// classicType returns the netCDF classic type that stores values of type t.
// Types without a classic equivalent are widened to the smallest type that
// holds every value: ubyte to short, ushort to int, the 32 and 64 bit
// unsigned and 64 bit signed types to double. Strings have no equivalent.
func classicType(t format.TypeID) (format.TypeID, bool) {
	switch t {
	case format.TypeChar, format.TypeByte, format.TypeShort, format.TypeInt, format.TypeFloat, format.TypeDouble:
		return t, true
	case format.TypeUByte:
		return format.TypeShort, true
	case format.TypeUShort:
		return format.TypeInt, true
	case format.TypeUInt, format.TypeInt64, format.TypeUInt64:
		return format.TypeDouble, true
	default:
		return format.TypeUndefined, false
	}
}

// typeOf returns the TypeID of a value returned by the cdf header.
func typeOf(val any) format.TypeID {
	switch val.(type) {
	case string:
		return format.TypeChar
	case []uint8:
		return format.TypeByte
	case []int16:
		return format.TypeShort
	case []int32:
		return format.TypeInt
	case []float32:
		return format.TypeFloat
	case []float64:
		return format.TypeDouble
	default:
		return format.TypeUndefined
	}
}

// fromCDF converts an attribute value returned by the cdf header into a
// buffer. BYTE values are signed.
func fromCDF(val any) (values.Buffer, error) {
	switch x := val.(type) {
	case string:
		return values.Text(x), nil
	case []uint8:
		return values.Of(signed(x)), nil
	case []int16:
		return values.Of(x).Clone(), nil
	case []int32:
		return values.Of(x).Clone(), nil
	case []float32:
		return values.Of(x).Clone(), nil
	case []float64:
		return values.Of(x).Clone(), nil
	default:
		return values.Buffer{}, fmt.Errorf("%w: unsupported netCDF value %T", errs.ErrType, val)
	}
}

// toCDF converts a buffer of a classic type into the value accepted by the
// cdf header and writers.
func toCDF(b values.Buffer) (any, error) {
	switch b.Type() {
	case format.TypeChar:
		data, _ := b.Data().([]uint8)
		return string(data), nil
	case format.TypeByte:
		data, _ := values.Elements[int8](b)
		return unsigned(data), nil
	case format.TypeShort, format.TypeInt, format.TypeFloat, format.TypeDouble:
		return b.Data(), nil
	default:
		return nil, fmt.Errorf("%w: %s has no netCDF classic equivalent", errs.ErrType, b.Type())
	}
}

func signed(src []uint8) []int8 {
	dst := make([]int8, len(src))
	for i, c := range src {
		dst[i] = int8(c)
	}

	return dst
}

func unsigned(src []int8) []uint8 {
	dst := make([]uint8, len(src))
	for i, c := range src {
		dst[i] = uint8(c)
	}

	return dst
}
