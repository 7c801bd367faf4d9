// Package compress provides whole-file codecs for netCDF file images.
//
// A dataset is first encoded as a classic netCDF image and the image is then
// optionally compressed as one unit. Compressed files carry a suffix naming
// the codec ("data.nc.zst", "data.nc.s2", "data.nc.lz4"), which
// DetectCompression maps back to a format.CompressionType.
//
// # Algorithms
//
//   - None: the image is stored as is and stays readable by any netCDF tool
//   - Zstd: best ratio, the usual choice for archives
//   - S2: fast compression with a moderate ratio
//   - LZ4: fastest decompression
//
// Zstd uses the pure Go implementation from klauspost/compress. Building with
// cgo and the gozstd build tag switches to the libzstd bindings; both read
// each other's frames.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(image)
//	...
//	image, err = codec.Decompress(packed)
//
// Codecs are stateless values and safe for concurrent use. Encoders and
// decoders are pooled internally.
package compress
