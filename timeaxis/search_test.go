package timeaxis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFindIndex(t *testing.T) {
	ts := []int{10, 20, 20, 20, 30}

	tests := []struct {
		mode Mode
		ref  int
		want int
	}{
		{FirstEqual, 20, 1},
		{FirstGreaterOrEqual, 20, 1},
		{LastLessOrEqual, 20, 3},
		{FirstGreater, 20, 4},
		{LastLess, 20, 0},

		{FirstEqual, 25, -1},
		{FirstGreaterOrEqual, 25, 4},
		{LastLessOrEqual, 25, 3},
		{FirstGreater, 30, -1},
		{LastLess, 10, -1},
		{LastLessOrEqual, 5, -1},
		{FirstGreaterOrEqual, 31, -1},
		{FirstGreater, 0, 0},
		{LastLess, 99, 4},
		{Mode(0), 20, -1},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			require.Equal(t, tt.want, FindIndex(ts, tt.ref, tt.mode), "ref %d", tt.ref)
		})
	}

	require.Equal(t, -1, FindIndex([]float64{}, 1, FirstEqual))
	require.Equal(t, -1, FindIndex[float64](nil, 1, LastLessOrEqual))
}

func TestFindTimeIndex(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{
		base,
		base.Add(time.Minute),
		base.Add(time.Minute),
		base.Add(2 * time.Minute),
	}
	ref := base.Add(time.Minute).In(time.FixedZone("west", -5*3600))

	require.Equal(t, 1, FindTimeIndex(ts, ref, FirstEqual))
	require.Equal(t, 2, FindTimeIndex(ts, ref, LastLessOrEqual))
	require.Equal(t, 3, FindTimeIndex(ts, ref, FirstGreater))
	require.Equal(t, 0, FindTimeIndex(ts, ref, LastLess))
	require.Equal(t, -1, FindTimeIndex(ts, base.Add(time.Second), FirstEqual))
}

func BenchmarkFindIndex(b *testing.B) {
	ts := make([]int64, 1<<16)
	for i := range ts {
		ts[i] = int64(i / 4)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = FindIndex(ts, int64(i%len(ts))/4, LastLessOrEqual)
	}
}
