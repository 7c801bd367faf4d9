package values

import (
	"strconv"
	"strings"

	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/internal/options"
)

// TextConfig controls how FormatText renders a buffer.
type TextConfig struct {
	maxWidth  int
	indent    string
	brackets  bool
	trimNulls bool
}

// TextOption configures FormatText.
type TextOption = options.Option[*TextConfig]

// WithMaxWidth wraps the output so that no line exceeds width bytes where
// possible. A width of 0 wraps character data only at embedded line breaks
// and never wraps numbers.
func WithMaxWidth(width int) TextOption {
	return options.NoError(func(c *TextConfig) {
		c.maxWidth = max(width, 0)
	})
}

// WithIndent sets the prefix of continuation lines.
func WithIndent(indent string) TextOption {
	return options.NoError(func(c *TextConfig) {
		c.indent = indent
	})
}

// WithoutBrackets drops the surrounding brackets of numeric lists and the
// quoting of character data. Character data is then written verbatim.
func WithoutBrackets() TextOption {
	return options.NoError(func(c *TextConfig) {
		c.brackets = false
	})
}

// WithTrimNulls removes trailing NUL bytes from character data.
func WithTrimNulls() TextOption {
	return options.NoError(func(c *TextConfig) {
		c.trimNulls = true
	})
}

// FormatText renders b as text.
//
// Numbers are written as a comma separated list in brackets, floats with 7
// and doubles with 15 significant digits. Character data is written as a
// quoted string with control characters and quotes escaped; string elements
// are each quoted the same way.
func FormatText(b Buffer, opts ...TextOption) string {
	cfg := &TextConfig{brackets: true}
	_ = options.Apply(cfg, opts...)

	if b.typ == format.TypeChar {
		data, _ := Elements[uint8](b)
		return formatChars(data, cfg)
	}

	tokens := formatTokens(b)
	if !cfg.brackets {
		return wrapTokens(tokens, "", "", cfg)
	}

	return wrapTokens(tokens, "[", "]", cfg)
}

// NormalizeText renders b in its canonical unquoted form: character data is
// returned verbatim without trailing NULs and lists are written without brackets.
func NormalizeText(b Buffer) string {
	return FormatText(b, WithoutBrackets(), WithTrimNulls())
}

func formatChars(data []byte, cfg *TextConfig) string {
	s := string(data)
	if cfg.trimNulls {
		s = strings.TrimRight(s, "\x00")
	}
	if !cfg.brackets {
		return s
	}

	var sb strings.Builder
	sb.WriteByte('"')
	lineLen := 1
	for i := 0; i < len(s); i++ {
		piece := escapeByte(s[i])
		if cfg.maxWidth > 0 && lineLen > 1 && lineLen+len(piece)+1 > cfg.maxWidth {
			sb.WriteString("\"\n")
			sb.WriteString(cfg.indent)
			sb.WriteByte('"')
			lineLen = len(cfg.indent) + 1
		}
		sb.WriteString(piece)
		lineLen += len(piece)

		if s[i] == '\n' && i < len(s)-1 {
			sb.WriteString("\"\n")
			sb.WriteString(cfg.indent)
			sb.WriteByte('"')
			lineLen = len(cfg.indent) + 1
		}
	}
	sb.WriteByte('"')

	return sb.String()
}

func escapeByte(c byte) string {
	switch c {
	case 0:
		return `\0`
	case '\a':
		return `\a`
	case '\b':
		return `\b`
	case '\t':
		return `\t`
	case '\n':
		return `\n`
	case '\v':
		return `\v`
	case '\f':
		return `\f`
	case '\r':
		return `\r`
	case '\\':
		return `\\`
	case '"':
		return `\"`
	}
	if c < 0x20 || c >= 0x7f {
		const hex = "0123456789abcdef"
		return string([]byte{'\\', 'x', hex[c>>4], hex[c&0xf]})
	}

	return string(c)
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		sb.WriteString(escapeByte(s[i]))
	}
	sb.WriteByte('"')

	return sb.String()
}

func formatTokens(b Buffer) []string {
	n := b.Len()
	tokens := make([]string, 0, n)

	switch s := b.data.(type) {
	case []string:
		for _, v := range s {
			tokens = append(tokens, quoteString(v))
		}
	case []float32:
		for _, v := range s {
			tokens = append(tokens, strconv.FormatFloat(float64(v), 'g', 7, 32))
		}
	case []float64:
		for _, v := range s {
			tokens = append(tokens, strconv.FormatFloat(v, 'g', 15, 64))
		}
	default:
		at, ok := numReader(b.data)
		if !ok {
			return tokens
		}
		for i := 0; i < n; i++ {
			x := at(i)
			if x.k == kindSigned {
				tokens = append(tokens, strconv.FormatInt(x.i, 10))
			} else {
				tokens = append(tokens, strconv.FormatUint(x.u, 10))
			}
		}
	}

	return tokens
}

func wrapTokens(tokens []string, open, closing string, cfg *TextConfig) string {
	var sb strings.Builder
	sb.WriteString(open)
	lineLen := len(open)

	for i, tok := range tokens {
		sep := ""
		if i > 0 {
			sep = ", "
		}
		if i > 0 && cfg.maxWidth > 0 && lineLen+len(sep)+len(tok) > cfg.maxWidth {
			sb.WriteString(",\n")
			sb.WriteString(cfg.indent)
			lineLen = len(cfg.indent)
			sep = ""
		}
		sb.WriteString(sep)
		sb.WriteString(tok)
		lineLen += len(sep) + len(tok)
	}
	sb.WriteString(closing)

	return sb.String()
}
