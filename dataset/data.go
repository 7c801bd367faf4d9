package dataset

import (
	"fmt"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/values"
)

// Sample data transfer. None of these methods checks definition locks:
// writing samples into an already defined shape is always allowed.

// AllocSamples reserves storage for count samples starting at sample start
// and returns a view of it. Newly reserved samples hold the default fill.
//
// The view shares memory with the variable and stays valid until the
// variable data grows again.
//
// Returns errs.ErrType when the range exceeds a fixed first dimension (or
// the single sample of a scalar), and errs.ErrAlloc when storage cannot be
// allocated.
func (v *Var) AllocSamples(start, count int) (values.Buffer, error) {
	if err := checkAttached(v); err != nil {
		return values.Buffer{}, err
	}
	if start < 0 || count < 0 {
		return values.Buffer{}, fmt.Errorf("%w: invalid sample range [%d, +%d) for %s", errs.ErrType, start, count, v.Path())
	}
	if limit := v.sampleLimit(); limit >= 0 && start+count > limit {
		return values.Buffer{}, fmt.Errorf("%w: samples [%d, %d) exceed the %d samples of %s", errs.ErrType, start, start+count, limit, v.Path())
	}

	ss := v.SampleSize()
	if ss == 0 {
		return values.Buffer{}, fmt.Errorf("%w: %s has an empty sample shape", errs.ErrType, v.Path())
	}
	if err := v.ensureSamples(start+count, ss); err != nil {
		return values.Buffer{}, err
	}

	return v.data.Slice(start*ss, (start+count)*ss), nil
}

func (v *Var) ensureSamples(n, ss int) error {
	have := v.SampleCount()
	if n <= have {
		return nil
	}
	if n > values.MaxElements/ss {
		return fmt.Errorf("%w: %d samples of %d elements for %s", errs.ErrAlloc, n, ss, v.Path())
	}

	if !v.data.IsValid() {
		empty, err := values.New(v.typ, 0)
		if err != nil {
			return err
		}
		v.data = empty
	}

	grown, err := values.Grow(v.data, (n-have)*ss)
	if err != nil {
		return fmt.Errorf("%s: %w", v.Path(), err)
	}
	v.data = grown

	return nil
}

// PutSamples writes the samples held by src starting at sample start.
//
// src must hold a whole number of samples. Values are converted into the
// variable type; the default fill of the source type maps to the default
// fill of the variable type.
//
// Returns the number of samples written.
func (v *Var) PutSamples(start int, src values.Buffer) (int, error) {
	return v.putSamples(start, src, values.Buffer{})
}

// PutSamplesMapped is PutSamples with the missing values of src listed in
// srcMissing. Each is translated to its counterpart in the variable type
// (see values.RemapMissing) instead of being converted numerically.
func (v *Var) PutSamplesMapped(start int, src, srcMissing values.Buffer) (int, error) {
	return v.putSamples(start, src, srcMissing)
}

// AppendSamples writes src after the last sample holding data.
func (v *Var) AppendSamples(src values.Buffer) (int, error) {
	return v.putSamples(v.SampleCount(), src, values.Buffer{})
}

func (v *Var) putSamples(start int, src, srcMissing values.Buffer) (int, error) {
	if err := checkAttached(v); err != nil {
		return 0, err
	}

	ss := v.SampleSize()
	if ss == 0 {
		return 0, fmt.Errorf("%w: %s has an empty sample shape", errs.ErrType, v.Path())
	}
	if src.Len()%ss != 0 {
		return 0, fmt.Errorf("%w: %d values are not a whole number of %d element samples for %s", errs.ErrType, src.Len(), ss, v.Path())
	}
	count := src.Len() / ss
	if count == 0 {
		return 0, nil
	}
	if (src.Type() == format.TypeString) != (v.typ == format.TypeString) || !src.Type().Valid() {
		return 0, fmt.Errorf("%w: cannot store %s values in %s variable %s", errs.ErrType, src.Type(), v.typ, v.Path())
	}

	opts, err := missingValueMap(src.Type(), srcMissing, v.typ)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", v.Path(), err)
	}

	dst, err := v.AllocSamples(start, count)
	if err != nil {
		return 0, err
	}
	if _, err := values.CastInto(dst, src, opts...); err != nil {
		return 0, fmt.Errorf("%s: %w", v.Path(), err)
	}

	return count, nil
}

// missingValueMap builds the cast option translating the missing values of
// one type, always including its default fill, into another type.
func missingValueMap(srcType format.TypeID, srcMissing values.Buffer, dstType format.TypeID) ([]values.CastOption, error) {
	if srcType == dstType || srcType == format.TypeString || dstType == format.TypeString {
		return nil, nil
	}

	from, err := values.DefaultFill(srcType)
	if err != nil {
		return nil, err
	}
	if srcMissing.Len() > 0 {
		listed, err := values.Cast(srcMissing, srcType)
		if err != nil {
			return nil, err
		}
		if from, err = listed.Append(from); err != nil {
			return nil, err
		}
		from = values.UniqueMissing(from)
	}

	to, err := values.RemapMissing(from, dstType)
	if err != nil {
		return nil, err
	}

	return []values.CastOption{values.WithValueMap(from, to)}, nil
}

// Samples returns a view of count samples starting at sample start.
//
// The range is clipped to the samples holding data; a negative count
// selects every sample from start on. A start beyond the data yields the
// zero Buffer.
func (v *Var) Samples(start, count int) (values.Buffer, error) {
	if err := checkAttached(v); err != nil {
		return values.Buffer{}, err
	}
	if start < 0 {
		return values.Buffer{}, fmt.Errorf("%w: negative sample start %d for %s", errs.ErrType, start, v.Path())
	}

	n := v.SampleCount()
	if start >= n {
		return values.Buffer{}, nil
	}
	if count < 0 || start+count > n {
		count = n - start
	}
	ss := v.SampleSize()

	return v.data.Slice(start*ss, (start+count)*ss), nil
}

// GetSamples returns a copy of count samples starting at sample start,
// converted to type t. The missing values of v map to their counterparts in t.
func (v *Var) GetSamples(start, count int, t format.TypeID) (values.Buffer, error) {
	view, err := v.Samples(start, count)
	if err != nil {
		return values.Buffer{}, err
	}
	if view.IsEmpty() {
		return values.New(t, 0)
	}
	if t == v.typ {
		return view.Clone(), nil
	}

	var opts []values.CastOption
	if format.IsNumeric(t) && format.IsNumeric(v.typ) {
		from := v.MissingValues()
		to, err := values.RemapMissing(from, t)
		if err != nil {
			return values.Buffer{}, fmt.Errorf("%s: %w", v.Path(), err)
		}
		opts = append(opts, values.WithValueMap(from, to))
	}

	out, err := values.Cast(view, t, opts...)
	if err != nil {
		return values.Buffer{}, fmt.Errorf("%s: %w", v.Path(), err)
	}

	return out, nil
}

// Data returns all data of v. The buffer shares memory with the variable.
func (v *Var) Data() values.Buffer { return v.data }

// DeleteData releases all data of v.
func (v *Var) DeleteData() {
	v.data = values.Buffer{}
}

// DeleteSamples truncates the data of v to its first start samples.
func (v *Var) DeleteSamples(start int) error {
	if err := checkAttached(v); err != nil {
		return err
	}
	if start < 0 {
		return fmt.Errorf("%w: negative sample start %d for %s", errs.ErrType, start, v.Path())
	}
	if start >= v.SampleCount() {
		return nil
	}

	v.data = v.data.Slice(0, start*v.SampleSize())

	return nil
}
