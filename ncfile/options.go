package ncfile

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/cds/compress"
	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/internal/options"
)

// ReadConfig holds the settings of Read, ReadFile and Decode.
type ReadConfig struct {
	logger         logrus.FieldLogger
	name           string
	compression    format.CompressionType
	compressionSet bool
	varTypes       map[string]format.TypeID
}

// ReadOption configures reading.
type ReadOption = options.Option[*ReadConfig]

// WithReadLogger sets the logger of the dataset tree built by the reader.
// The default is logrus.StandardLogger().
func WithReadLogger(l logrus.FieldLogger) ReadOption {
	return options.NoError(func(c *ReadConfig) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithName sets the name of the root group returned by the reader.
func WithName(name string) ReadOption {
	return options.NoError(func(c *ReadConfig) {
		c.name = name
	})
}

// WithDecompression sets the codec used by Decode and ReadFile. By default
// ReadFile detects it from the file name suffix and Decode expects an
// uncompressed image.
func WithDecompression(t format.CompressionType) ReadOption {
	return options.NoError(func(c *ReadConfig) {
		c.compression = t
		c.compressionSet = true
	})
}

// WithVarType requests that variable name be held as type t in memory.
// Data and missing value attributes are converted after reading.
func WithVarType(name string, t format.TypeID) ReadOption {
	return options.New(func(c *ReadConfig) error {
		if !t.Valid() {
			return fmt.Errorf("%w: unsupported type %s for variable %s", errs.ErrType, t, name)
		}
		if c.varTypes == nil {
			c.varTypes = make(map[string]format.TypeID)
		}
		c.varTypes[name] = t

		return nil
	})
}

func newReadConfig(opts ...ReadOption) (*ReadConfig, error) {
	cfg := &ReadConfig{logger: logrus.StandardLogger()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WriteConfig holds the settings of Write, WriteFile and Encode.
type WriteConfig struct {
	logger      logrus.FieldLogger
	compression format.CompressionType
	nativeTypes bool
}

// WriteOption configures writing.
type WriteOption = options.Option[*WriteConfig]

// WithLogger sets the logger that reports skipped groups, skipped
// variables and narrowed types. The default is the logger of the dataset tree.
func WithLogger(l logrus.FieldLogger) WriteOption {
	return options.NoError(func(c *WriteConfig) {
		c.logger = l
	})
}

// WithCompression compresses the image produced by Encode and WriteFile.
// WriteFile appends the codec suffix (".zst", ".s2", ".lz4") when the path
// does not already end with it.
func WithCompression(t format.CompressionType) WriteOption {
	return options.New(func(c *WriteConfig) error {
		if _, err := compress.GetCodec(t); err != nil {
			return err
		}
		c.compression = t

		return nil
	})
}

// WithNativeTypes records the in-memory type of every narrowed variable in
// a NativeTypeAtt attribute, so reading the file back restores it.
func WithNativeTypes() WriteOption {
	return options.NoError(func(c *WriteConfig) {
		c.nativeTypes = true
	})
}

func newWriteConfig(opts ...WriteOption) (*WriteConfig, error) {
	cfg := &WriteConfig{compression: format.CompressionNone}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}
