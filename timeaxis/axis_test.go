package timeaxis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cds/dataset"
	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/values"
)

func newTimeGroup(t *testing.T) (*dataset.Group, *dataset.Var, *dataset.Var) {
	t.Helper()

	root := dataset.NewRoot("")
	_, err := root.DefineDim("time", 0, true)
	require.NoError(t, err)
	tv, err := root.DefineVar(TimeVar, format.TypeDouble, "time")
	require.NoError(t, err)
	ov, err := root.DefineVar(TimeOffsetVar, format.TypeInt, "time")
	require.NoError(t, err)

	return root, tv, ov
}

func TestFindTimeVar(t *testing.T) {
	root := dataset.NewRoot("")
	child, err := root.DefineGroup("child")
	require.NoError(t, err)

	require.Nil(t, FindTimeVar(child))

	offset, err := root.DefineVar(TimeOffsetVar, format.TypeDouble)
	require.NoError(t, err)
	require.Same(t, offset, FindTimeVar(child))

	tv, err := root.DefineVar(TimeVar, format.TypeDouble)
	require.NoError(t, err)
	require.Same(t, tv, FindTimeVar(child))
	require.Same(t, tv, FindTimeVar(offset))

	units, err := tv.DefineAtt(UnitsAtt, "seconds since 2024-01-01")
	require.NoError(t, err)
	require.Same(t, tv, FindTimeVar(units))
}

func TestBaseTime(t *testing.T) {
	root, tv, _ := newTimeGroup(t)

	_, err := BaseTime(dataset.NewRoot(""))
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = BaseTime(root)
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = tv.DefineAtt(UnitsAtt, "fortnights since 2024-01-01")
	require.NoError(t, err)
	_, err = BaseTime(root)
	require.ErrorIs(t, err, errs.ErrType)

	_, err = tv.ChangeAtt(UnitsAtt, "hours since 2024-01-01 12:00:00 0:00", true)
	require.NoError(t, err)
	base, err := BaseTime(root)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), base)
}

func TestSetSampleTimes(t *testing.T) {
	root, tv, ov := newTimeGroup(t)
	bt, err := root.DefineVar(BaseTimeVar, format.TypeInt)
	require.NoError(t, err)

	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	times := []time.Time{
		day.Add(10 * time.Hour),
		day.Add(10*time.Hour + 30*time.Second),
		day.Add(10*time.Hour + 60*time.Second + 500*time.Millisecond),
	}

	_, err = SetSampleTimes(root, 1, times)
	require.ErrorIs(t, err, errs.ErrNotFound)

	n, err := SetSampleTimes(root, 0, times)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	base, err := BaseTime(root)
	require.NoError(t, err)
	require.Equal(t, day, base)
	require.Equal(t, "seconds since 2024-03-05 00:00:00 0:00", tv.Att(UnitsAtt).Text())
	require.Equal(t, tv.Att(UnitsAtt).Text(), ov.Att(UnitsAtt).Text())

	require.Equal(t, []float64{36000, 36030, 36060.5}, tv.Data().Data())
	require.Equal(t, []int32{36000, 36030, 36061}, ov.Data().Data())
	require.Equal(t, []int32{int32(day.Unix())}, bt.Data().Data())
	require.Equal(t, "05-Mar-2024,00:00:00 UTC", bt.Att(StringAtt).Text())

	got, err := SampleTimes(root, 0, -1)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range times {
		require.True(t, times[i].Equal(got[i]), "sample %d: %s", i, got[i])
	}

	more := []time.Time{day.Add(11 * time.Hour)}
	n, err = SetSampleTimes(root, 3, more)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 4, tv.SampleCount())

	got, err = SampleTimes(ov, 3, 1)
	require.NoError(t, err)
	require.True(t, more[0].Equal(got[0]))
}

func TestSetBaseTime(t *testing.T) {
	root, tv, ov := newTimeGroup(t)
	bt, err := root.DefineVar(BaseTimeVar, format.TypeDouble)
	require.NoError(t, err)

	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	times := []time.Time{day.Add(10 * time.Hour), day.Add(10*time.Hour + 90*time.Second)}
	_, err = SetSampleTimes(root, 0, times)
	require.NoError(t, err)

	newBase := day.Add(10 * time.Hour)
	require.NoError(t, SetBaseTime(tv, "Time offset from base_time", newBase))

	require.Equal(t, "seconds since 2024-03-05 10:00:00 0:00", tv.Att(UnitsAtt).Text())
	require.Equal(t, "Time offset from base_time", ov.Att(LongNameAtt).Text())
	require.Equal(t, []float64{0, 90}, tv.Data().Data())
	require.Equal(t, []int32{0, 90}, ov.Data().Data())

	require.Equal(t, []float64{float64(newBase.Unix())}, bt.Data().Data())
	require.Equal(t, "seconds since 1970-01-01 00:00:00 0:00", bt.Att(UnitsAtt).Text())
	require.Equal(t, "Time offset from base_time", bt.Att(LongNameAtt).Text())

	got, err := SampleTimes(root, 0, -1)
	require.NoError(t, err)
	for i := range times {
		require.True(t, times[i].Equal(got[i]))
	}

	t.Run("locked variable", func(t *testing.T) {
		tv.IncDefLock()
		defer tv.DecDefLock()

		require.ErrorIs(t, SetBaseTime(root, "", day), errs.ErrLocked)
	})
}

func TestSampleTimes_Missing(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("int storage keeps fill across rebase", func(t *testing.T) {
		root := dataset.NewRoot("")
		_, err := root.DefineDim("time", 0, true)
		require.NoError(t, err)
		tv, err := root.DefineVar(TimeVar, format.TypeInt, "time")
		require.NoError(t, err)
		_, err = tv.DefineAtt(UnitsAtt, "seconds since 2024-01-01 00:00:00 0:00")
		require.NoError(t, err)
		_, err = tv.AppendSamples(values.Of([]int32{0, format.FillInt, 10}))
		require.NoError(t, err)

		got, err := SampleTimes(root, 0, -1)
		require.NoError(t, err)
		require.Equal(t, []time.Time{base, {}, base.Add(10 * time.Second)}, got)

		secs, err := SampleTimesEpoch(root, 1, 1)
		require.NoError(t, err)
		require.True(t, math.IsNaN(secs[0]))

		require.NoError(t, SetBaseTime(root, "", base.Add(time.Hour)))
		require.Equal(t, []int32{-3600, format.FillInt, -3590}, tv.Data().Data())

		got, err = SampleTimes(root, 0, -1)
		require.NoError(t, err)
		require.True(t, got[1].IsZero())
		require.True(t, base.Add(10*time.Second).Equal(got[2]))
	})

	t.Run("double storage with fill attribute", func(t *testing.T) {
		root := dataset.NewRoot("")
		_, err := root.DefineDim("time", 0, true)
		require.NoError(t, err)
		tv, err := root.DefineVar(TimeVar, format.TypeDouble, "time")
		require.NoError(t, err)
		_, err = tv.DefineAtt(UnitsAtt, "seconds since 2024-01-01 00:00:00 0:00")
		require.NoError(t, err)
		_, err = tv.DefineAtt("_FillValue", float64(-1))
		require.NoError(t, err)
		_, err = tv.AppendSamples(values.Of([]float64{0, -1, math.NaN(), 30}))
		require.NoError(t, err)

		got, err := SampleTimes(root, 0, -1)
		require.NoError(t, err)
		require.Equal(t, []time.Time{base, {}, {}, base.Add(30 * time.Second)}, got)

		_, err = SetSampleTimes(root, 4, []time.Time{{}})
		require.NoError(t, err)
		_, err = SetSampleTimesEpoch(root, 5, []float64{math.NaN()})
		require.NoError(t, err)
		data, _ := values.Elements[float64](tv.Data())
		require.Equal(t, []float64{-1, -1}, data[4:])
	})
}

func TestSampleTimes_Units(t *testing.T) {
	root := dataset.NewRoot("")
	_, err := root.DefineDim("time", 0, true)
	require.NoError(t, err)
	tv, err := root.DefineVar(TimeVar, format.TypeFloat, "time")
	require.NoError(t, err)
	_, err = tv.DefineAtt(UnitsAtt, "minutes since 2024-01-01")
	require.NoError(t, err)
	_, err = tv.AppendSamples(values.Of([]float32{0, 1.5}))
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got, err := SampleTimes(root, 0, -1)
	require.NoError(t, err)
	require.Equal(t, []time.Time{base, base.Add(90 * time.Second)}, got)

	secs, err := SampleTimesEpoch(root, 1, 1)
	require.NoError(t, err)
	require.Equal(t, []float64{float64(base.Unix() + 90)}, secs)

	_, err = SetSampleTimesEpoch(root, 2, []float64{float64(base.Unix()) + 180})
	require.NoError(t, err)
	require.Equal(t, []float32{0, 1.5, 3}, tv.Data().Data())

	empty, err := SampleTimes(root, 10, 1)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestSampleTimes_UnsupportedStorage(t *testing.T) {
	root := dataset.NewRoot("")
	tv, err := root.DefineVar(TimeVar, format.TypeUInt)
	require.NoError(t, err)
	_, err = tv.DefineAtt(UnitsAtt, "seconds since 2024-01-01")
	require.NoError(t, err)

	_, err = SampleTimes(root, 0, -1)
	require.ErrorIs(t, err, errs.ErrType)

	_, err = SetSampleTimes(root, 0, []time.Time{time.Now()})
	require.ErrorIs(t, err, errs.ErrType)
}
