package values

import (
	"math"
	"testing"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/stretchr/testify/require"
)

func TestCast_Rounding(t *testing.T) {
	src := Of([]float64{1.5, -1.5, 2.5, -2.5, 0.4, -0.4, 2.49})

	dst, err := Cast(src, format.TypeShort)
	require.NoError(t, err)

	data, ok := Elements[int16](dst)
	require.True(t, ok)
	require.Equal(t, []int16{2, -2, 3, -3, 0, 0, 2}, data)
}

func TestCast_NaturalClamp(t *testing.T) {
	tests := []struct {
		name string
		src  Buffer
		dst  format.TypeID
		want any
	}{
		{"double to short", Of([]float64{1e6, -1e6, 12}), format.TypeShort, []int16{math.MaxInt16, math.MinInt16, 12}},
		{"int64 to ubyte", Of([]int64{-5, 300, 7}), format.TypeUByte, []uint8{0, 255, 7}},
		{"uint64 to int64", Of([]uint64{math.MaxUint64, 1}), format.TypeInt64, []int64{math.MaxInt64, 1}},
		{"double to int64", Of([]float64{9.3e18, -9.3e18}), format.TypeInt64, []int64{math.MaxInt64, math.MinInt64}},
		{"double to uint64", Of([]float64{-1, 0x1p64}), format.TypeUInt64, []uint64{0, math.MaxUint64}},
		{"double to float", Of([]float64{1e39, -1e39}), format.TypeFloat, []float32{math.MaxFloat32, -math.MaxFloat32}},
		{"byte to uint", Of([]int8{-1, 5}), format.TypeUInt, []uint32{0, 5}},
		{"short to int widening", Of([]int16{-32768, 32767}), format.TypeInt, []int32{-32768, 32767}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst, err := Cast(tt.src, tt.dst)
			require.NoError(t, err)
			require.Equal(t, tt.dst, dst.Type())
			require.Equal(t, tt.want, dst.Data())
		})
	}
}

func TestCast_NaN(t *testing.T) {
	dst, err := Cast(Of([]float64{math.NaN(), 1}), format.TypeShort)
	require.NoError(t, err)
	require.Equal(t, []int16{format.FillShort, 1}, dst.Data())

	dst, err = Cast(Of([]float64{math.NaN()}), format.TypeChar)
	require.NoError(t, err)
	require.Equal(t, []uint8{format.FillChar}, dst.Data())

	dst, err = Cast(Of([]float64{math.NaN()}), format.TypeFloat)
	require.NoError(t, err)
	f, _ := Elements[float32](dst)
	require.True(t, math.IsNaN(float64(f[0])))
}

func TestCast_ExplicitRange(t *testing.T) {
	src := Of([]int16{-5, 0, 5, 50})

	t.Run("replacement and bound", func(t *testing.T) {
		dst, err := Cast(src, format.TypeShort, WithRange(Range{Min: 0, MinReplace: -1, Max: 10}))
		require.NoError(t, err)
		require.Equal(t, []int16{-1, 0, 5, 10}, dst.Data())
	})

	t.Run("both replacements", func(t *testing.T) {
		dst, err := Cast(src, format.TypeInt, WithRange(Range{Min: -1, MinReplace: 99, Max: 6.0, MaxReplace: 77}))
		require.NoError(t, err)
		require.Equal(t, []int32{99, 0, 5, 77}, dst.Data())
	})

	t.Run("one side keeps natural limit", func(t *testing.T) {
		dst, err := Cast(Of([]float64{-1e9, 3}), format.TypeShort, WithRange(Range{Max: 2}))
		require.NoError(t, err)
		require.Equal(t, []int16{math.MinInt16, 2}, dst.Data())
	})

	t.Run("invalid bound", func(t *testing.T) {
		_, err := Cast(src, format.TypeShort, WithRange(Range{Min: "zero"}))
		require.ErrorIs(t, err, errs.ErrType)
	})
}

func TestCast_ValueMap(t *testing.T) {
	src := Of([]float64{math.NaN(), 1, -999, 1e10})
	from := Of([]float64{math.NaN(), -999, 1e10})
	to := Of([]int32{-1, -2, 7})

	dst, err := Cast(src, format.TypeShort, WithValueMap(from, to))
	require.NoError(t, err)
	require.Equal(t, []int16{-1, 1, -2, 7}, dst.Data())

	_, err = Cast(src, format.TypeShort, WithValueMap(from, Of([]int32{1})))
	require.ErrorIs(t, err, errs.ErrType)
}

func TestCast_Strings(t *testing.T) {
	dst, err := Cast(Strings("a", "b"), format.TypeString,
		WithValueMap(Strings("b"), Strings("z")))
	require.NoError(t, err)
	require.Equal(t, []string{"a", "z"}, dst.Data())

	_, err = Cast(Strings("1"), format.TypeInt)
	require.ErrorIs(t, err, errs.ErrType)

	_, err = Cast(Of([]int32{1}), format.TypeString)
	require.ErrorIs(t, err, errs.ErrType)
}

func TestCast_RoundTrip(t *testing.T) {
	src := Of([]int32{math.MinInt32, -1, 0, 1, math.MaxInt32})

	wide, err := Cast(src, format.TypeDouble)
	require.NoError(t, err)

	back, err := Cast(wide, format.TypeInt)
	require.NoError(t, err)
	require.True(t, src.Equal(back))

	big := Of([]int64{1<<53 + 1})
	asDouble, err := Cast(big, format.TypeDouble)
	require.NoError(t, err)
	sign, idx, err := Compare(big, asDouble, 1, nil)
	require.NoError(t, err)
	require.Equal(t, 1, sign)
	require.Equal(t, 0, idx)
}

func TestCast_RoundTripAllPairs(t *testing.T) {
	numeric := []format.TypeID{
		format.TypeChar, format.TypeByte, format.TypeShort, format.TypeInt,
		format.TypeFloat, format.TypeDouble, format.TypeUByte, format.TypeUShort,
		format.TypeUInt, format.TypeInt64, format.TypeUInt64,
	}

	for _, t1 := range numeric {
		for _, t2 := range numeric {
			t.Run(t1.String()+"_"+t2.String(), func(t *testing.T) {
				shared := []float64{0, 1, 100, 127}
				if format.IsSigned(t1) && format.IsSigned(t2) {
					shared = append(shared, -1, -128)
				}

				src, err := Cast(Of(shared), t1)
				require.NoError(t, err)
				there, err := Cast(src, t2)
				require.NoError(t, err)
				back, err := Cast(there, t1)
				require.NoError(t, err)

				require.True(t, src.Equal(back), "%s -> %s -> %s", src, there, back)
				for i, want := range shared {
					got, ok := there.Float64(i)
					require.True(t, ok)
					require.Equal(t, want, got)
				}
			})
		}
	}
}

func TestCast_Infinity(t *testing.T) {
	src := Of([]float64{math.Inf(1), math.Inf(-1), 1e39})

	dst, err := Cast(src, format.TypeFloat)
	require.NoError(t, err)
	require.Equal(t, []float32{float32(math.Inf(1)), float32(math.Inf(-1)), math.MaxFloat32}, dst.Data())

	filled, err := NewFilled(format.TypeFloat, 1, math.Inf(1))
	require.NoError(t, err)
	require.Equal(t, dst.Slice(0, 1).Data(), filled.Data())

	dst, err = Cast(src, format.TypeFloat, WithRange(Range{Max: 10}))
	require.NoError(t, err)
	require.Equal(t, []float32{10, float32(math.Inf(-1)), 10}, dst.Data())

	dst, err = Cast(src, format.TypeShort)
	require.NoError(t, err)
	require.Equal(t, []int16{math.MaxInt16, math.MinInt16, math.MaxInt16}, dst.Data())
}

func TestCast_ValueMapOutsideSource(t *testing.T) {
	src := Of([]float32{math.MaxFloat32, -999, 1})
	from := Of([]float64{1e40, -999})
	to := Of([]float64{-1, -2})

	dst, err := Cast(src, format.TypeDouble, WithValueMap(from, to))
	require.NoError(t, err)
	require.Equal(t, []float64{math.MaxFloat32, -2, 1}, dst.Data())

	dst, err = Cast(Of([]uint8{255, 0}), format.TypeShort, WithValueMap(Of([]int32{-1, 300}), Of([]int16{5, 6})))
	require.NoError(t, err)
	require.Equal(t, []int16{255, 0}, dst.Data())
}

func TestCastInto(t *testing.T) {
	dst, err := New(format.TypeInt, 2)
	require.NoError(t, err)

	n, err := CastInto(dst, Of([]float32{1.5, 2.5, 3.5}))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []int32{2, 3}, dst.Data())
}

func TestCast_Empty(t *testing.T) {
	dst, err := Cast(Buffer{}, format.TypeDouble)
	require.NoError(t, err)
	require.Equal(t, format.TypeDouble, dst.Type())
	require.True(t, dst.IsEmpty())

	dst, err = Cast(Of([]int32{}), format.TypeShort)
	require.NoError(t, err)
	require.True(t, dst.IsEmpty())
}

func BenchmarkCast_DoubleToShort(b *testing.B) {
	data := make([]float64, 4096)
	for i := range data {
		data[i] = float64(i) * 1.25
	}
	src := Of(data)
	dst, _ := New(format.TypeShort, len(data))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = CastInto(dst, src)
	}
}
