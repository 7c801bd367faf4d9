// Package endian provides the byte orders used to serialize value buffers.
//
// EndianEngine joins binary.ByteOrder and binary.AppendByteOrder so encoders can
// both patch fixed offsets and append to a growing slice through one value.
//
// Buffer fingerprints and binary dumps are always little-endian:
//
//	engine := endian.GetLittleEndianEngine()
//	data := values.AppendBinary(nil, buf, engine)
//
// Array files store multi-byte values big-endian; use GetBigEndianEngine when
// producing bytes that must match an on-disk image.
//
// All functions are safe for concurrent use and the returned engines are stateless.
package endian

import (
	"encoding/binary"
	"strings"
	"unsafe"
)

// EndianEngine reads, writes and appends fixed-size integers in one byte order.
// binary.LittleEndian and binary.BigEndian satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

var native = detectNative()

func detectNative() EndianEngine {
	var marker uint16 = 0x0102
	if (*[2]byte)(unsafe.Pointer(&marker))[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// NativeEngine returns the engine matching the byte order of the host.
func NativeEngine() EndianEngine {
	return native
}

// IsNative reports whether engine uses the byte order of the host.
func IsNative(engine EndianEngine) bool {
	return engine == native
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// ParseEngine returns the engine named by name: "little" (or "le"), "big"
// (or "be") and "native". The empty name selects little-endian.
func ParseEngine(name string) (EndianEngine, bool) {
	switch strings.ToLower(name) {
	case "little", "le", "":
		return GetLittleEndianEngine(), true
	case "big", "be":
		return GetBigEndianEngine(), true
	case "native":
		return NativeEngine(), true
	default:
		return nil, false
	}
}
