package compress

import (
	"fmt"
	"math"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/cds/endian"
	"github.com/arloliu/cds/errs"
)

// lz4HeaderSize is the size of the little-endian original length that
// precedes every LZ4 block.
const lz4HeaderSize = 4

// Bound on the expansion of a single LZ4 block, checked before allocating
// the output.
const (
	lz4MaxRatio = 256
	lz4MaxSlack = 64 * 1024
)

var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4Compressor compresses file images as a single LZ4 block.
//
// The block is prefixed with the uncompressed length so Decompress can
// allocate the output exactly once.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates an LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses data as a length prefixed LZ4 block.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: lz4 input of %d bytes is too large", errs.ErrType, len(data))
	}

	engine := endian.GetLittleEndianEngine()
	dst := make([]byte, 0, lz4HeaderSize+lz4.CompressBlockBound(len(data)))
	dst = engine.AppendUint32(dst, uint32(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[lz4HeaderSize:cap(dst)])
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}

	return dst[:lz4HeaderSize+n], nil
}

// Decompress decompresses a length prefixed LZ4 block.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < lz4HeaderSize {
		return nil, fmt.Errorf("%w: lz4 block of %d bytes has no length header", errs.ErrType, len(data))
	}

	size := endian.GetLittleEndianEngine().Uint32(data)
	if uint64(size) > lz4MaxRatio*uint64(len(data))+lz4MaxSlack {
		return nil, fmt.Errorf("%w: lz4 length header %d exceeds the block bound", errs.ErrType, size)
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data[lz4HeaderSize:], buf)
	if err != nil {
		return nil, fmt.Errorf("%w: lz4 decompression failed: %w", errs.ErrType, err)
	}
	if n != int(size) {
		return nil, fmt.Errorf("%w: lz4 block holds %d bytes, header says %d", errs.ErrType, n, size)
	}

	return buf, nil
}
