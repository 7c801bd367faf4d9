package format

import (
	"math"
	"unsafe"
)

// Default fill values. They match the netCDF conventions so that data moved
// through an array file keeps its "no observation" sentinel.
const (
	FillChar   = uint8(0)
	FillByte   = int8(-127)
	FillShort  = int16(-32767)
	FillInt    = int32(-2147483647)
	FillFloat  = float32(9.9692099683868690e+36)
	FillDouble = float64(9.9692099683868690e+36)
	FillUByte  = uint8(255)
	FillUShort = uint16(65535)
	FillUInt   = uint32(4294967295)
	FillInt64  = int64(-9223372036854775806)
	FillUInt64 = uint64(18446744073709551614)
	FillString = ""
)

// typeInfo holds the registry entry of a single type.
type typeInfo struct {
	size int
	min  any
	max  any
	fill any
}

var registry = [...]typeInfo{
	TypeChar:   {size: 1, min: uint8(0), max: uint8(math.MaxUint8), fill: FillChar},
	TypeByte:   {size: 1, min: int8(math.MinInt8), max: int8(math.MaxInt8), fill: FillByte},
	TypeShort:  {size: 2, min: int16(math.MinInt16), max: int16(math.MaxInt16), fill: FillShort},
	TypeInt:    {size: 4, min: int32(math.MinInt32), max: int32(math.MaxInt32), fill: FillInt},
	TypeFloat:  {size: 4, min: float32(-math.MaxFloat32), max: float32(math.MaxFloat32), fill: FillFloat},
	TypeDouble: {size: 8, min: float64(-math.MaxFloat64), max: float64(math.MaxFloat64), fill: FillDouble},
	TypeUByte:  {size: 1, min: uint8(0), max: uint8(math.MaxUint8), fill: FillUByte},
	TypeUShort: {size: 2, min: uint16(0), max: uint16(math.MaxUint16), fill: FillUShort},
	TypeUInt:   {size: 4, min: uint32(0), max: uint32(math.MaxUint32), fill: FillUInt},
	TypeInt64:  {size: 8, min: int64(math.MinInt64), max: int64(math.MaxInt64), fill: FillInt64},
	TypeUInt64: {size: 8, min: uint64(0), max: uint64(math.MaxUint64), fill: FillUInt64},
	TypeString: {size: int(unsafe.Sizeof("")), fill: FillString},
}

func lookup(t TypeID) (typeInfo, bool) {
	if !t.Valid() {
		return typeInfo{}, false
	}

	return registry[t], true
}

// SizeOf returns the in-memory size in bytes of a single element of type t.
// For TypeString this is the size of the string header, not of its contents.
func SizeOf(t TypeID) (int, bool) {
	info, ok := lookup(t)
	return info.size, ok
}

// Min returns the smallest value representable by t, typed as the Go element
// type of t. TypeString has no minimum.
func Min(t TypeID) (any, bool) {
	info, ok := lookup(t)
	if !ok || info.min == nil {
		return nil, false
	}

	return info.min, true
}

// Max returns the largest value representable by t, typed as the Go element
// type of t. TypeString has no maximum.
func Max(t TypeID) (any, bool) {
	info, ok := lookup(t)
	if !ok || info.max == nil {
		return nil, false
	}

	return info.max, true
}

// DefaultFill returns the default fill value of t, typed as the Go element
// type of t.
//
// Go strings are immutable, so the empty string returned for TypeString is
// an independent sentinel for every caller.
func DefaultFill(t TypeID) (any, bool) {
	info, ok := lookup(t)
	return info.fill, ok
}

// IsNumeric reports whether t holds numbers. TypeChar counts as numeric since
// its elements are plain bytes.
func IsNumeric(t TypeID) bool {
	return t.Valid() && t != TypeString
}

// IsInteger reports whether t is one of the integer types (including TypeChar).
func IsInteger(t TypeID) bool {
	return IsNumeric(t) && !IsFloat(t)
}

// IsFloat reports whether t is TypeFloat or TypeDouble.
func IsFloat(t TypeID) bool {
	return t == TypeFloat || t == TypeDouble
}

// IsSigned reports whether t can hold negative values.
func IsSigned(t TypeID) bool {
	switch t { //nolint: exhaustive
	case TypeByte, TypeShort, TypeInt, TypeInt64, TypeFloat, TypeDouble:
		return true
	default:
		return false
	}
}
