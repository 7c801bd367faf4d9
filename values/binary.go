package values

import (
	"math"

	"github.com/arloliu/cds/endian"
	"github.com/arloliu/cds/internal/hash"
	"github.com/arloliu/cds/internal/pool"
)

// AppendBinary appends the elements of b to dst in the byte order of engine
// and returns the extended slice.
//
// Each string element is written as its uint32 byte length followed by its bytes.
func AppendBinary(dst []byte, b Buffer, engine endian.EndianEngine) []byte {
	switch s := b.data.(type) {
	case []uint8:
		dst = append(dst, s...)
	case []int8:
		for _, v := range s {
			dst = append(dst, byte(v))
		}
	case []int16:
		for _, v := range s {
			dst = engine.AppendUint16(dst, uint16(v))
		}
	case []uint16:
		for _, v := range s {
			dst = engine.AppendUint16(dst, v)
		}
	case []int32:
		for _, v := range s {
			dst = engine.AppendUint32(dst, uint32(v))
		}
	case []uint32:
		for _, v := range s {
			dst = engine.AppendUint32(dst, v)
		}
	case []int64:
		for _, v := range s {
			dst = engine.AppendUint64(dst, uint64(v))
		}
	case []uint64:
		for _, v := range s {
			dst = engine.AppendUint64(dst, v)
		}
	case []float32:
		for _, v := range s {
			dst = engine.AppendUint32(dst, math.Float32bits(v))
		}
	case []float64:
		for _, v := range s {
			dst = engine.AppendUint64(dst, math.Float64bits(v))
		}
	case []string:
		for _, v := range s {
			dst = engine.AppendUint32(dst, uint32(len(v)))
			dst = append(dst, v...)
		}
	}

	return dst
}

// Fingerprint returns a 64-bit hash of the type and elements of b.
// Buffers with identical type and element bits share a fingerprint.
func Fingerprint(b Buffer) uint64 {
	bb := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(bb)

	bb.B = append(bb.B, byte(b.typ))
	bb.B = AppendBinary(bb.B, b, endian.GetLittleEndianEngine())

	return hash.Sum(bb.B)
}
