package values

import (
	"math"
	"testing"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/stretchr/testify/require"
)

func TestParseText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		typ   format.TypeID
		maxN  int
		want  any
		count int
	}{
		{"separators", "1, 2 3\t[4]", format.TypeShort, 0, []int16{1, 2, 3, 4}, 4},
		{"hex and float tokens", "0x1F 1.6 -2.5", format.TypeInt, 0, []int32{31, 2, -3}, 3},
		{"leading zeros are decimal", "010 -0010 08 007", format.TypeInt, 0, []int32{10, -10, 8, 7}, 4},
		{"base prefixes", "0X1f -0x10 0o17 0b101", format.TypeInt, 0, []int32{31, -16, 15, 5}, 4},
		{"hex float", "0x1p3", format.TypeDouble, 0, []float64{8}, 1},
		{"clamped", "300 -300 5", format.TypeByte, 0, []int8{127, -128, 5}, 3},
		{"max count", "1 2 3 4", format.TypeDouble, 2, []float64{1, 2}, 2},
		{"large unsigned", "18446744073709551615", format.TypeUInt64, 0, []uint64{math.MaxUint64}, 1},
		{"exponent", "1e3 2.5E-1", format.TypeFloat, 0, []float32{1000, 0.25}, 2},
		{"char", "hello", format.TypeChar, 0, []uint8("hello"), 5},
		{"char truncated", "hello", format.TypeChar, 2, []uint8("he"), 2},
		{"string", "a b c", format.TypeString, 0, []string{"a b c"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, n, err := ParseText(tt.text, tt.typ, tt.maxN)
			require.NoError(t, err)
			require.Equal(t, tt.count, n)
			require.Equal(t, tt.typ, b.Type())
			require.Equal(t, tt.want, b.Data())
		})
	}
}

func TestParseText_Empty(t *testing.T) {
	for _, text := range []string{"", "  ", "[ , ]"} {
		b, n, err := ParseText(text, format.TypeInt, 0)
		require.NoError(t, err)
		require.Zero(t, n)
		require.False(t, b.IsValid())
	}
}

func TestParseText_Invalid(t *testing.T) {
	for _, text := range []string{"1 abc", "1_000", "0x", "0xZZ"} {
		_, _, err := ParseText(text, format.TypeInt, 0)
		require.ErrorIs(t, err, errs.ErrType, text)
	}

	_, _, err := ParseText("1", format.TypeUndefined, 0)
	require.ErrorIs(t, err, errs.ErrType)
}

func TestParseTextFill(t *testing.T) {
	b, n, err := ParseTextFill("300 -300 5", format.TypeByte, 0)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []int8{format.FillByte, format.FillByte, 5}, b.Data())

	b, _, err = ParseTextFill("1e40 1", format.TypeFloat, 0)
	require.NoError(t, err)
	require.Equal(t, []float32{format.FillFloat, 1}, b.Data())
}

func TestParseFormatRoundTrip(t *testing.T) {
	inputs := []Buffer{
		Of([]int16{-32768, 0, 32767}),
		Of([]uint32{0, 4294967295}),
		Of([]int64{math.MinInt64, math.MaxInt64}),
		Of([]float32{1.5, 0.1, -3.25e-5}),
		Of([]float64{math.Pi, -1e300, 0.5}),
	}

	for _, in := range inputs {
		t.Run(in.Type().String(), func(t *testing.T) {
			text := FormatText(in)
			out, n, err := ParseText(text, in.Type(), 0)
			require.NoError(t, err)
			require.Equal(t, in.Len(), n)

			sign, idx, err := Compare(in, out, n, 1e-9)
			require.NoError(t, err)
			require.Zero(t, sign, "mismatch at %d for %q", idx, text)
		})
	}
}
