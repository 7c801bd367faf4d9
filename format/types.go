package format

import "strings"

type (
	TypeID          uint8
	CompressionType uint8
)

const (
	TypeUndefined TypeID = 0x0  // TypeUndefined marks an unset or unknown type.
	TypeChar      TypeID = 0x1  // TypeChar represents fixed 8-bit character data.
	TypeByte      TypeID = 0x2  // TypeByte represents signed 8-bit integers.
	TypeShort     TypeID = 0x3  // TypeShort represents signed 16-bit integers.
	TypeInt       TypeID = 0x4  // TypeInt represents signed 32-bit integers.
	TypeFloat     TypeID = 0x5  // TypeFloat represents 32-bit IEEE floats.
	TypeDouble    TypeID = 0x6  // TypeDouble represents 64-bit IEEE floats.
	TypeUByte     TypeID = 0x7  // TypeUByte represents unsigned 8-bit integers.
	TypeUShort    TypeID = 0x8  // TypeUShort represents unsigned 16-bit integers.
	TypeUInt      TypeID = 0x9  // TypeUInt represents unsigned 32-bit integers.
	TypeInt64     TypeID = 0xA  // TypeInt64 represents signed 64-bit integers.
	TypeUInt64    TypeID = 0xB  // TypeUInt64 represents unsigned 64-bit integers.
	TypeString    TypeID = 0xC  // TypeString represents variable length text elements.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// AllTypes lists every registered TypeID in declaration order.
var AllTypes = []TypeID{
	TypeChar, TypeByte, TypeShort, TypeInt, TypeFloat, TypeDouble,
	TypeUByte, TypeUShort, TypeUInt, TypeInt64, TypeUInt64, TypeString,
}

var typeNames = [...]string{
	TypeUndefined: "undefined",
	TypeChar:      "char",
	TypeByte:      "byte",
	TypeShort:     "short",
	TypeInt:       "int",
	TypeFloat:     "float",
	TypeDouble:    "double",
	TypeUByte:     "ubyte",
	TypeUShort:    "ushort",
	TypeUInt:      "uint",
	TypeInt64:     "int64",
	TypeUInt64:    "uint64",
	TypeString:    "string",
}

// String returns the CDL name of the type.
func (t TypeID) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}

	return "unknown"
}

// Valid reports whether t is a registered type other than TypeUndefined.
func (t TypeID) Valid() bool {
	return t > TypeUndefined && t <= TypeString
}

// ParseTypeID returns the TypeID named by name.
//
// Both the CDL names ("short", "double", ...) and the Go style names
// ("int16", "float64", ...) are accepted, case-insensitively.
func ParseTypeID(name string) (TypeID, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "char":
		return TypeChar, true
	case "byte", "int8":
		return TypeByte, true
	case "short", "int16":
		return TypeShort, true
	case "int", "int32":
		return TypeInt, true
	case "float", "float32":
		return TypeFloat, true
	case "double", "float64":
		return TypeDouble, true
	case "ubyte", "uint8":
		return TypeUByte, true
	case "ushort", "uint16":
		return TypeUShort, true
	case "uint", "uint32":
		return TypeUInt, true
	case "int64":
		return TypeInt64, true
	case "uint64":
		return TypeUInt64, true
	case "string":
		return TypeString, true
	default:
		return TypeUndefined, false
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType returns the CompressionType named by name ("none", "zstd", "s2", "lz4").
func ParseCompressionType(name string) (CompressionType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
