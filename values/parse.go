package values

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
)

// ParseText parses a textual list of values into a buffer of type t.
//
// Values are separated by whitespace, commas or square brackets. Integer
// tokens may be written in decimal, hexadecimal (0x), octal (0o) or binary
// (0b) notation, or as floats which are rounded; a leading zero alone does
// not select octal. Out of range values are clamped to the limits of t.
// TypeChar takes the raw bytes of text and TypeString holds text as a single
// element.
//
// Parameters:
//   - text: Text to parse
//   - t: Element type of the result
//   - maxN: Maximum number of elements to parse, 0 for no limit
//
// Returns:
//   - Buffer: Parsed values; the zero Buffer when text holds no values
//   - int: Number of elements parsed
//   - error: errs.ErrType for unparsable tokens or an unsupported type
func ParseText(text string, t format.TypeID, maxN int) (Buffer, int, error) {
	return parseText(text, t, maxN, false)
}

// ParseTextFill is ParseText with out of range values replaced by the
// default fill of t instead of being clamped.
func ParseTextFill(text string, t format.TypeID, maxN int) (Buffer, int, error) {
	return parseText(text, t, maxN, true)
}

func parseText(text string, t format.TypeID, maxN int, fillRange bool) (Buffer, int, error) {
	switch t {
	case format.TypeChar:
		if maxN > 0 && len(text) > maxN {
			text = text[:maxN]
		}
		if text == "" {
			return Buffer{}, 0, nil
		}

		return Text(text), len(text), nil
	case format.TypeString:
		if text == "" {
			return Buffer{}, 0, nil
		}

		return Strings(text), 1, nil
	}

	if !t.Valid() {
		return Buffer{}, 0, fmt.Errorf("%w: unsupported type %s", errs.ErrType, t)
	}

	tokens := splitTokens(text)
	if maxN > 0 && len(tokens) > maxN {
		tokens = tokens[:maxN]
	}
	if len(tokens) == 0 {
		return Buffer{}, 0, nil
	}

	b, err := New(t, len(tokens))
	if err != nil {
		return Buffer{}, 0, err
	}

	set, _ := numWriter(b)
	for i, tok := range tokens {
		x, err := parseToken(tok)
		if err != nil {
			return Buffer{}, 0, err
		}
		if fillRange && !inRange(b, x) {
			v, _ := format.DefaultFill(t)
			x, _ = scalarNum(v)
		}
		set(i, x)
	}

	return b, len(tokens), nil
}

func splitTokens(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '[' || r == ']'
	})
}

func parseToken(tok string) (num, error) {
	if x, ok := parsePrefixed(tok); ok {
		return x, nil
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return num{k: kindSigned, i: i}, nil
	}
	if u, err := strconv.ParseUint(tok, 10, 64); err == nil {
		return num{k: kindUnsigned, u: u}, nil
	}

	f, err := strconv.ParseFloat(tok, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return num{}, fmt.Errorf("%w: cannot parse %q as a number", errs.ErrType, tok)
	}

	return num{k: kindFloat, f: f}, nil
}

// parsePrefixed parses integers written with an explicit 0x, 0o or 0b
// prefix. Leading zeros alone never select a base.
func parsePrefixed(tok string) (num, bool) {
	digits, neg := tok, false
	if digits != "" && (digits[0] == '-' || digits[0] == '+') {
		neg = digits[0] == '-'
		digits = digits[1:]
	}
	if len(digits) < 3 || digits[0] != '0' {
		return num{}, false
	}

	var base int
	switch digits[1] {
	case 'x', 'X':
		base = 16
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	default:
		return num{}, false
	}

	u, err := strconv.ParseUint(digits[2:], base, 64)
	if err != nil {
		return num{}, false
	}

	switch {
	case !neg && u <= math.MaxInt64:
		return num{k: kindSigned, i: int64(u)}, true
	case !neg:
		return num{k: kindUnsigned, u: u}, true
	case u <= 1<<63:
		return num{k: kindSigned, i: -int64(u)}, true
	default:
		return num{k: kindFloat, f: -float64(u)}, true
	}
}

// inRange reports whether x lies within the limits of the element type of b.
// Fractional values count as in range for integer types since they round.
func inRange(b Buffer, x num) bool {
	switch b.data.(type) {
	case []int8:
		return withinLimits[int8](x)
	case []int16:
		return withinLimits[int16](x)
	case []int32:
		return withinLimits[int32](x)
	case []int64:
		return withinLimits[int64](x)
	case []uint8:
		return withinLimits[uint8](x)
	case []uint16:
		return withinLimits[uint16](x)
	case []uint32:
		return withinLimits[uint32](x)
	case []uint64:
		return withinLimits[uint64](x)
	case []float32:
		return withinLimits[float32](x)
	case []float64:
		return withinLimits[float64](x)
	default:
		return false
	}
}

func withinLimits[T Number](x num) bool {
	if x.k == kindFloat && kindOf[T]() != kindFloat {
		if x.isNaN() {
			return false
		}
		x.f = math.Round(x.f)
	} else if x.k == kindFloat && math.IsInf(x.f, 0) {
		return true
	}
	lo, hi := limitsOf[T]()

	return cmpNum(x, lo) >= 0 && cmpNum(x, hi) <= 0
}
