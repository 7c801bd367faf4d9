package values

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatText(t *testing.T) {
	tests := []struct {
		name string
		b    Buffer
		opts []TextOption
		want string
	}{
		{"ints", Of([]int16{1, -2, 3}), nil, "[1, -2, 3]"},
		{"no brackets", Of([]int16{1, -2, 3}), []TextOption{WithoutBrackets()}, "1, -2, 3"},
		{"unsigned", Of([]uint64{math.MaxUint64}), nil, "[18446744073709551615]"},
		{"float", Of([]float32{0.1, 1.5}), nil, "[0.1, 1.5]"},
		{"double", Of([]float64{1.0 / 3}), nil, "[0.333333333333333]"},
		{"empty", Of([]int32{}), nil, "[]"},
		{"strings", Strings("a", "b\"c"), nil, `["a", "b\"c"]`},
		{"char escaped", Text("a\"b\x01\n"), nil, `"a\"b\x01\n"`},
		{"char without brackets", Text("raw \"text\""), []TextOption{WithoutBrackets()}, `raw "text"`},
		{"char with nulls", Text("abc\x00\x00"), []TextOption{WithTrimNulls()}, `"abc"`},
		{
			"char line breaks", Text("line1\nline2"), []TextOption{WithIndent("  ")},
			"\"line1\\n\"\n  \"line2\"",
		},
		{
			"wrapped numbers", Of([]int32{100, 200, 300, 400}), []TextOption{WithMaxWidth(10), WithIndent("  ")},
			"[100, 200,\n  300, 400]",
		},
		{
			"wrapped char", Text("abcdef"), []TextOption{WithMaxWidth(5), WithIndent(" ")},
			"\"abc\"\n \"de\"\n \"f\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FormatText(tt.b, tt.opts...))
		})
	}
}

func TestNormalizeText(t *testing.T) {
	require.Equal(t, "degC", NormalizeText(Text("degC\x00\x00")))
	require.Equal(t, "1, 2", NormalizeText(Of([]int32{1, 2})))
	require.Equal(t, "", NormalizeText(Text("")))
}

func TestBufferString(t *testing.T) {
	require.Equal(t, "[1.5]", Of([]float64{1.5}).String())
	require.Equal(t, `"units"`, Text("units").String())
}
