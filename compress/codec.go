package compress

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
)

// Compressor compresses a complete file image.
type Compressor interface {
	// Compress compresses data and returns the compressed bytes.
	//
	// The returned slice may share memory with data for the no-op codec;
	// callers that reuse data must copy the result first.
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a complete file image.
type Decompressor interface {
	// Decompress returns the original bytes of data.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression for one algorithm.
// All codecs are stateless and safe for concurrent use.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared codec for compressionType.
//
// Returns errs.ErrType for an unknown compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: unsupported compression type %s", errs.ErrType, compressionType)
}

var extensions = map[format.CompressionType]string{
	format.CompressionZstd: ".zst",
	format.CompressionS2:   ".s2",
	format.CompressionLZ4:  ".lz4",
}

// Extension returns the file name suffix used for compressionType,
// such as ".zst". It is empty for CompressionNone.
func Extension(compressionType format.CompressionType) string {
	return extensions[compressionType]
}

// DetectCompression returns the compression implied by the suffix of path.
// "data.nc.zst" is zstd compressed, "data.nc" is not compressed.
func DetectCompression(path string) format.CompressionType {
	ext := strings.ToLower(filepath.Ext(path))
	for t, e := range extensions {
		if e == ext {
			return t
		}
	}

	return format.CompressionNone
}
