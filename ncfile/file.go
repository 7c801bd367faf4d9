package ncfile

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ctessum/cdf"

	"github.com/arloliu/cds/compress"
	"github.com/arloliu/cds/dataset"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/internal/pool"
)

// Encode returns g as a netCDF classic image, compressed with the codec
// selected by WithCompression.
func Encode(g *dataset.Group, opts ...WriteOption) ([]byte, error) {
	cfg, err := newWriteConfig(opts...)
	if err != nil {
		return nil, err
	}
	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}

	buf := pool.GetImageBuffer()
	defer pool.PutImageBuffer(buf)

	if err := Write(buf, g, opts...); err != nil {
		return nil, err
	}

	if cfg.compression == format.CompressionNone {
		return bytes.Clone(buf.Bytes()), nil
	}

	return codec.Compress(buf.Bytes())
}

// Decode builds a dataset tree from an image produced by Encode or read
// from a netCDF file. The image is decompressed first when WithDecompression
// names a codec.
func Decode(data []byte, opts ...ReadOption) (*dataset.Group, error) {
	cfg, err := newReadConfig(opts...)
	if err != nil {
		return nil, err
	}

	if cfg.compressionSet {
		codec, err := compress.GetCodec(cfg.compression)
		if err != nil {
			return nil, err
		}
		if data, err = codec.Decompress(data); err != nil {
			return nil, err
		}
	}

	return Read(pool.WrapByteBuffer(data), int64(len(data)), opts...)
}

// ReadFile reads the netCDF classic file at path.
//
// Files whose name ends with a codec suffix (".zst", ".s2", ".lz4") are
// decompressed in memory; others are read in place.
func ReadFile(path string, opts ...ReadOption) (*dataset.Group, error) {
	cfg, err := newReadConfig(opts...)
	if err != nil {
		return nil, err
	}

	compression := cfg.compression
	if !cfg.compressionSet {
		compression = compress.DetectCompression(path)
	}

	if compression != format.CompressionNone {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		return Decode(data, append(opts, WithDecompression(compression))...)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	g, err := Read(f, fi.Size(), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return g, nil
}

// WriteFile writes g to the netCDF classic file at path, replacing it.
//
// With WithCompression the compressed image is written and the codec suffix
// is appended to path when missing. The path actually written is returned.
func WriteFile(path string, g *dataset.Group, opts ...WriteOption) (string, error) {
	cfg, err := newWriteConfig(opts...)
	if err != nil {
		return "", err
	}

	if cfg.compression != format.CompressionNone {
		if ext := compress.Extension(cfg.compression); !strings.HasSuffix(strings.ToLower(path), ext) {
			path += ext
		}
		data, err := Encode(g, opts...)
		if err != nil {
			return "", err
		}

		return path, os.WriteFile(path, data, 0o644)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Write(f, g, opts...); err != nil {
		f.Close()
		return "", err
	}
	if err := cdf.UpdateNumRecs(f); err != nil {
		f.Close()
		return "", err
	}

	return path, f.Close()
}
