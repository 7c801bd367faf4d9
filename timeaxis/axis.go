package timeaxis

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/cds/dataset"
	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/values"
)

// Standard variable and attribute names of a time axis.
const (
	TimeVar       = "time"
	TimeOffsetVar = "time_offset"
	BaseTimeVar   = "base_time"

	UnitsAtt    = "units"
	LongNameAtt = "long_name"
	StringAtt   = "string"
)

const (
	epochUnits       = "seconds since 1970-01-01 00:00:00 0:00"
	baseTimeLongName = "Base time in Epoch"
	baseTimeLayout   = "02-Jan-2006,15:04:05 MST"
)

// offsetVars are the variables holding sample offsets, in lookup order.
var offsetVars = []string{TimeVar, TimeOffsetVar}

// FindTimeVar returns the variable holding the sample times of obj.
//
// The group of obj is searched for "time" and then "time_offset", followed
// by each ancestor group in turn. It returns nil when none is found.
func FindTimeVar(obj dataset.Object) *dataset.Var {
	for g := groupOf(obj); g != nil; g = g.ParentGroup() {
		for _, name := range offsetVars {
			if v := g.Var(name); v != nil {
				return v
			}
		}
	}

	return nil
}

// BaseTime returns the base time of the time variable of obj, read from its
// units attribute.
//
// Returns errs.ErrNotFound when there is no time variable or units
// attribute, and errs.ErrType when the units cannot be parsed.
func BaseTime(obj dataset.Object) (time.Time, error) {
	v := FindTimeVar(obj)
	if v == nil {
		return time.Time{}, fmt.Errorf("%w: no time variable visible from %s", errs.ErrNotFound, pathOf(obj))
	}

	u, err := unitsOf(v)
	if err != nil {
		return time.Time{}, err
	}

	return u.Base, nil
}

// SetBaseTime sets the base time of every standard time variable in the
// group of obj.
//
// The units and long_name attributes of "time" and "time_offset" are
// rewritten and their samples re-encoded so they keep the same times. A
// "base_time" variable receives t in epoch seconds together with epoch
// units, a long_name and a string attribute.
//
// Parameters:
//   - obj: Group, or an entity whose group holds the time variables
//   - label: long_name of the offset variables; a default is used when empty
//   - t: New base time
func SetBaseTime(obj dataset.Object, label string, t time.Time) error {
	g := groupOf(obj)
	if g == nil {
		return fmt.Errorf("%w: no group for %s", errs.ErrNotFound, pathOf(obj))
	}
	t = t.UTC()

	for _, name := range offsetVars {
		v := g.Var(name)
		if v == nil {
			continue
		}
		if err := rebase(v, label, t); err != nil {
			return err
		}
	}

	if v := g.Var(BaseTimeVar); v != nil {
		if err := setBaseTimeVar(v, label, t); err != nil {
			return err
		}
	}

	return nil
}

func rebase(v *dataset.Var, label string, base time.Time) error {
	next := Units{Unit: time.Second, Base: base}

	var times []time.Time
	old, err := unitsOf(v)
	if err == nil {
		next.Unit = old.Unit
		if times, err = decode(v, old, 0, -1); err != nil {
			return err
		}
	}

	if label == "" {
		label = "Time offset from " + base.Format("2006-01-02 15:04:05.999 0:00")
	}
	if _, err := v.ChangeAtt(UnitsAtt, next.String(), true); err != nil {
		return err
	}
	if _, err := v.ChangeAtt(LongNameAtt, label, true); err != nil {
		return err
	}

	if len(times) == 0 {
		return nil
	}

	return encode(v, next, 0, times)
}

func setBaseTimeVar(v *dataset.Var, label string, t time.Time) error {
	if label == "" {
		label = baseTimeLongName
	}
	if _, err := v.ChangeAtt(StringAtt, t.Format(baseTimeLayout), true); err != nil {
		return err
	}
	if _, err := v.ChangeAtt(LongNameAtt, label, true); err != nil {
		return err
	}
	if _, err := v.ChangeAtt(UnitsAtt, epochUnits, true); err != nil {
		return err
	}

	if err := checkStorage(v); err != nil {
		return err
	}
	_, err := v.PutSamples(0, values.Of([]float64{epochSeconds(t)}))

	return err
}

// SampleTimes returns count sample times starting at sample start, read
// from the time variable of obj. A negative count reads every sample from
// start on. Samples holding a missing value of the variable read as the
// zero time.
func SampleTimes(obj dataset.Object, start, count int) ([]time.Time, error) {
	v := FindTimeVar(obj)
	if v == nil {
		return nil, fmt.Errorf("%w: no time variable visible from %s", errs.ErrNotFound, pathOf(obj))
	}
	u, err := unitsOf(v)
	if err != nil {
		return nil, err
	}

	return decode(v, u, start, count)
}

// SetSampleTimes writes times as the samples of every offset variable
// ("time" and "time_offset") in the group of the time variable of obj,
// starting at sample start. Zero times are stored as the first missing
// value of each variable.
//
// When writing at sample 0 and no base time is set yet, the base time
// becomes the UTC midnight at or before the first non-zero time.
//
// Returns the number of samples written.
func SetSampleTimes(obj dataset.Object, start int, times []time.Time) (int, error) {
	if len(times) == 0 {
		return 0, nil
	}

	v := FindTimeVar(obj)
	if v == nil {
		return 0, fmt.Errorf("%w: no time variable visible from %s", errs.ErrNotFound, pathOf(obj))
	}
	g := v.Group()

	canonical, err := unitsOf(v)
	if err != nil {
		if start != 0 || !errors.Is(err, errs.ErrNotFound) {
			return 0, err
		}

		first := times[0]
		if i := slices.IndexFunc(times, func(t time.Time) bool { return !t.IsZero() }); i > 0 {
			first = times[i]
		}
		base := Midnight(first)
		if err := SetBaseTime(g, "", base); err != nil {
			return 0, err
		}
		g.Logger().WithFields(logrus.Fields{
			"path": v.Path(),
			"base": base,
		}).Debug("base time established from first sample")

		if canonical, err = unitsOf(v); err != nil {
			return 0, err
		}
	}

	for _, name := range offsetVars {
		ov := g.Var(name)
		if ov == nil {
			continue
		}

		u, err := unitsOf(ov)
		if errors.Is(err, errs.ErrNotFound) {
			u = canonical
			_, err = ov.ChangeAtt(UnitsAtt, u.String(), true)
		}
		if err != nil {
			return 0, err
		}
		if err := encode(ov, u, start, times); err != nil {
			return 0, err
		}
	}

	return len(times), nil
}

// SampleTimesEpoch is SampleTimes with times in seconds since the Unix
// epoch. Missing samples read as NaN.
func SampleTimesEpoch(obj dataset.Object, start, count int) ([]float64, error) {
	times, err := SampleTimes(obj, start, count)
	if err != nil {
		return nil, err
	}

	secs := make([]float64, len(times))
	for i, t := range times {
		if t.IsZero() {
			secs[i] = math.NaN()
			continue
		}
		secs[i] = epochSeconds(t)
	}

	return secs, nil
}

// SetSampleTimesEpoch is SetSampleTimes with times in seconds since the
// Unix epoch. NaN marks a missing sample.
func SetSampleTimesEpoch(obj dataset.Object, start int, secs []float64) (int, error) {
	times := make([]time.Time, len(secs))
	for i, s := range secs {
		if math.IsNaN(s) {
			continue
		}
		times[i] = fromEpochSeconds(s)
	}

	return SetSampleTimes(obj, start, times)
}

// decode converts stored offsets to times. Samples holding one of the
// missing values of v decode to the zero time.
func decode(v *dataset.Var, u Units, start, count int) ([]time.Time, error) {
	if err := checkStorage(v); err != nil {
		return nil, err
	}

	view, err := v.Samples(start, count)
	if err != nil {
		return nil, err
	}

	if format.IsInteger(v.Type()) {
		offsets, missing, err := offsetsAs[int64](v, view, format.TypeInt64)
		if err != nil {
			return nil, err
		}
		times := make([]time.Time, len(offsets))
		for i, off := range offsets {
			if slices.Contains(missing, off) {
				continue
			}
			times[i] = u.Base.Add(time.Duration(off) * u.Unit)
		}

		return times, nil
	}

	offsets, missing, err := offsetsAs[float64](v, view, format.TypeDouble)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, len(offsets))
	for i, off := range offsets {
		if math.IsNaN(off) || slices.Contains(missing, off) {
			continue
		}
		times[i] = u.Time(off)
	}

	return times, nil
}

// offsetsAs widens the stored offsets and the missing values of v to t
// without remapping, so both sides compare exactly.
func offsetsAs[T int64 | float64](v *dataset.Var, view values.Buffer, t format.TypeID) ([]T, []T, error) {
	if view.IsEmpty() {
		return []T{}, nil, nil
	}
	buf, err := values.Cast(view, t)
	if err != nil {
		return nil, nil, err
	}
	miss, err := values.Cast(v.MissingValues(), t)
	if err != nil {
		return nil, nil, err
	}
	offsets, _ := values.Elements[T](buf)
	missing, _ := values.Elements[T](miss)

	return offsets, missing, nil
}

// encode stores times as offsets. Zero times are written as the first
// missing value of v.
func encode(v *dataset.Var, u Units, start int, times []time.Time) error {
	if err := checkStorage(v); err != nil {
		return err
	}
	if len(times) == 0 {
		return nil
	}

	offsets := make([]float64, len(times))
	for i, t := range times {
		if t.IsZero() {
			offsets[i] = format.FillDouble
			continue
		}
		offsets[i] = u.Offset(t)
	}

	dst, err := v.AllocSamples(start, len(times))
	if err != nil {
		return err
	}
	fill := v.MissingValues().Slice(0, 1)
	_, err = values.CastInto(dst, values.Of(offsets), values.WithValueMap(values.Of([]float64{format.FillDouble}), fill))

	return err
}

func checkStorage(v *dataset.Var) error {
	switch v.Type() {
	case format.TypeByte, format.TypeShort, format.TypeInt, format.TypeInt64, format.TypeFloat, format.TypeDouble:
		return nil
	default:
		return fmt.Errorf("%w: time variable %s cannot be stored as %s", errs.ErrType, v.Path(), v.Type())
	}
}

func unitsOf(v *dataset.Var) (Units, error) {
	a := v.Att(UnitsAtt)
	if a == nil || a.Len() == 0 {
		return Units{}, fmt.Errorf("%w: %s has no units", errs.ErrNotFound, v.Path())
	}

	u, err := ParseUnits(a.Text())
	if err != nil {
		return Units{}, fmt.Errorf("%s: %w", a.Path(), err)
	}

	return u, nil
}

func groupOf(obj dataset.Object) *dataset.Group {
	switch o := obj.(type) {
	case *dataset.Group:
		return o
	case *dataset.Var:
		return o.Group()
	case *dataset.Dim:
		return o.Group()
	case *dataset.Att:
		if p := o.Parent(); p != nil {
			return groupOf(p)
		}
	}

	return nil
}

func pathOf(obj dataset.Object) string {
	if obj == nil {
		return "<nil>"
	}

	return obj.Path()
}

func epochSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

func fromEpochSeconds(s float64) time.Time {
	sec := math.Floor(s)
	nsec := math.Round((s - sec) * 1e9)

	return time.Unix(int64(sec), int64(nsec)).UTC()
}
