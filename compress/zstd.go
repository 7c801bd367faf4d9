package compress

// ZstdCompressor compresses file images with Zstandard.
//
// The pure Go implementation from klauspost/compress is used by default.
// Building with cgo and the gozstd tag switches to the libzstd bindings.
// Both produce standard zstd frames and can read each other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
