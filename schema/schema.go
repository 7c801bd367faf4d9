package schema

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/internal/options"
)

// Format is the encoding of a schema document.
type Format uint8

const (
	FormatYAML Format = iota + 1 // FormatYAML is a YAML document.
	FormatTOML                   // FormatTOML is a TOML document.
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FormatFromPath returns the format implied by the extension of path:
// ".yaml" and ".yml" for YAML, ".toml" for TOML.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return 0, false
	}
}

// Schema is the definition of a dataset: a root group with its attributes,
// dimensions, variables and child groups.
type Schema struct {
	Name       string      `yaml:"name,omitempty" toml:"name,omitempty" validate:"excludes=/"`
	Attributes []Attribute `yaml:"attributes,omitempty" toml:"attributes,omitempty" validate:"dive"`
	Dimensions []Dimension `yaml:"dimensions,omitempty" toml:"dimensions,omitempty" validate:"dive"`
	Variables  []Variable  `yaml:"variables,omitempty" toml:"variables,omitempty" validate:"dive"`
	Groups     []Group     `yaml:"groups,omitempty" toml:"groups,omitempty" validate:"dive"`

	log logrus.FieldLogger
}

// Group is a child group definition.
type Group struct {
	Name       string      `yaml:"name" toml:"name" validate:"required,excludes=/"`
	Attributes []Attribute `yaml:"attributes,omitempty" toml:"attributes,omitempty" validate:"dive"`
	Dimensions []Dimension `yaml:"dimensions,omitempty" toml:"dimensions,omitempty" validate:"dive"`
	Variables  []Variable  `yaml:"variables,omitempty" toml:"variables,omitempty" validate:"dive"`
	Groups     []Group     `yaml:"groups,omitempty" toml:"groups,omitempty" validate:"dive"`
}

// Dimension is a dimension definition. The length of an unlimited
// dimension is ignored.
type Dimension struct {
	Name      string `yaml:"name" toml:"name" validate:"required,excludes=/"`
	Length    int    `yaml:"length,omitempty" toml:"length,omitempty" validate:"gte=0"`
	Unlimited bool   `yaml:"unlimited,omitempty" toml:"unlimited,omitempty"`
}

// Attribute is an attribute definition.
//
// Value is a scalar or a list. Without a Type, strings become character
// data, lists of strings become a string attribute, integers become int
// (int64 when they do not fit) and any floating point value makes the
// attribute double.
type Attribute struct {
	Name  string `yaml:"name" toml:"name" validate:"required,excludes=/"`
	Type  string `yaml:"type,omitempty" toml:"type,omitempty" validate:"omitempty,cdstype"`
	Value any    `yaml:"value" toml:"value"`
}

// Variable is a variable definition with optional initial data, given as
// a flat list in sample order.
type Variable struct {
	Name       string      `yaml:"name" toml:"name" validate:"required,excludes=/"`
	Type       string      `yaml:"type" toml:"type" validate:"required,cdstype"`
	Dimensions []string    `yaml:"dimensions,omitempty" toml:"dimensions,omitempty" validate:"dive,required"`
	Attributes []Attribute `yaml:"attributes,omitempty" toml:"attributes,omitempty" validate:"dive"`
	Data       any         `yaml:"data,omitempty" toml:"data,omitempty"`
}

// schemaValidate is the validator for schema documents.
var schemaValidate *validator.Validate

func init() {
	schemaValidate = validator.New()
	_ = schemaValidate.RegisterValidation("cdstype", validateTypeName)
}

func validateTypeName(fl validator.FieldLevel) bool {
	_, ok := format.ParseTypeID(fl.Field().String())
	return ok
}

// Validate checks the schema against its struct tags.
//
// Returns errs.ErrType describing every failing field.
func (s *Schema) Validate() error {
	if err := schemaValidate.Struct(s); err != nil {
		return fmt.Errorf("%w: invalid schema: %v", errs.ErrType, err)
	}

	return nil
}

// LoadConfig holds the settings of Load and LoadFile.
type LoadConfig struct {
	format Format
	logger logrus.FieldLogger
}

// LoadOption configures loading.
type LoadOption = options.Option[*LoadConfig]

// WithFormat sets the document format. Load defaults to YAML and LoadFile
// to the format implied by the file extension.
func WithFormat(f Format) LoadOption {
	return options.New(func(c *LoadConfig) error {
		if f != FormatYAML && f != FormatTOML {
			return fmt.Errorf("%w: unsupported schema format %d", errs.ErrType, f)
		}
		c.format = f

		return nil
	})
}

// WithLogger sets the logger of trees built from the schema.
func WithLogger(l logrus.FieldLogger) LoadOption {
	return options.NoError(func(c *LoadConfig) {
		c.logger = l
	})
}

// Load reads and validates a schema document from r.
//
// Unknown YAML fields are rejected. Returns errs.ErrType for undecodable or
// invalid documents.
func Load(r io.Reader, opts ...LoadOption) (*Schema, error) {
	cfg := &LoadConfig{format: FormatYAML, logger: logrus.StandardLogger()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	s := &Schema{}
	switch cfg.format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(s); err != nil {
			return nil, fmt.Errorf("%w: decoding toml schema: %v", errs.ErrType, err)
		}
	default:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: decoding yaml schema: %v", errs.ErrType, err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.log = cfg.logger

	return s, nil
}

// LoadFile reads and validates the schema document at path.
func LoadFile(path string, opts ...LoadOption) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if ft, ok := FormatFromPath(path); ok {
		opts = append([]LoadOption{WithFormat(ft)}, opts...)
	}

	s, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Encode writes s to w in format f.
func (s *Schema) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}

		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(s)
	default:
		return fmt.Errorf("%w: unsupported schema format %d", errs.ErrType, f)
	}
}
