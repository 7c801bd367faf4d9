package dataset

import (
	"fmt"
	"slices"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/values"
)

// Var is a typed, multi-dimensional variable owned by a group.
//
// Its data is stored flat in row major order. A sample is one index of the
// first dimension and holds SampleSize elements; a scalar variable holds a
// single sample of one element.
type Var struct {
	entity
	attList

	group *Group
	typ   format.TypeID
	dims  []*Dim
	data  values.Buffer
}

var _ Object = (*Var)(nil)

// Kind returns KindVar.
func (v *Var) Kind() Kind { return KindVar }

// Parent returns the owning group.
func (v *Var) Parent() Object {
	if v.group == nil {
		return nil
	}

	return v.group
}

// Group returns the owning group, or nil once deleted.
func (v *Var) Group() *Group { return v.group }

// Path returns the absolute path of the variable, such as /grp/_vars_/temp.
func (v *Var) Path() string {
	if v.group == nil {
		return childPath("", varsSegment, v.name)
	}

	return childPath(v.group.Path(), varsSegment, v.name)
}

// Type returns the element type of the variable.
func (v *Var) Type() format.TypeID { return v.typ }

// Dims returns the dimensions of the variable, outermost first.
func (v *Var) Dims() []*Dim { return slices.Clone(v.dims) }

// DimNames returns the names of the dimensions of the variable.
func (v *Var) DimNames() []string {
	names := make([]string, len(v.dims))
	for i, d := range v.dims {
		names[i] = d.name
	}

	return names
}

// IsCoordinate reports whether v is named after one of its own dimensions.
func (v *Var) IsCoordinate() bool {
	for _, d := range v.dims {
		if d.name == v.name {
			return true
		}
	}

	return false
}

// IsScalar reports whether v has no dimensions.
func (v *Var) IsScalar() bool { return len(v.dims) == 0 }

// SampleSize returns the number of elements in one sample: the product of
// the lengths of all dimensions after the first.
func (v *Var) SampleSize() int {
	n := 1
	for i := 1; i < len(v.dims); i++ {
		n *= v.dims[i].Length()
	}

	return n
}

// SampleCount returns the number of samples holding data.
func (v *Var) SampleCount() int {
	ss := v.SampleSize()
	if ss == 0 {
		return 0
	}

	return v.data.Len() / ss
}

// Shape returns the length of every dimension. For an unlimited first
// dimension the sample count of v is reported.
func (v *Var) Shape() []int {
	shape := make([]int, len(v.dims))
	for i, d := range v.dims {
		if i == 0 && d.unlimited {
			shape[i] = v.SampleCount()
			continue
		}
		shape[i] = d.Length()
	}

	return shape
}

// sampleLimit returns the largest number of samples v may hold, or -1 when
// the first dimension is unlimited.
func (v *Var) sampleLimit() int {
	switch {
	case len(v.dims) == 0:
		return 1
	case v.dims[0].unlimited:
		return -1
	default:
		return v.dims[0].length
	}
}

func (v *Var) usesDim(d *Dim) bool {
	return slices.Contains(v.dims, d)
}

// Rename changes the name of v.
//
// Fails with errs.ErrConflict when a sibling variable uses name, and with
// errs.ErrLocked when v or its group is locked.
func (v *Var) Rename(name string) error {
	if err := checkAttached(v); err != nil {
		return err
	}
	if name == v.name {
		return nil
	}
	if err := validateName(KindVar, name); err != nil {
		return err
	}
	if err := v.checkRename(name); err != nil {
		return err
	}

	v.name = name

	return nil
}

func (v *Var) checkRename(name string) error {
	if err := checkUnlocked(v, v.Parent()); err != nil {
		return err
	}
	if other := v.group.Var(name); other != nil && other != v {
		return fmt.Errorf("%w: variable %s already exists", errs.ErrConflict, other.Path())
	}

	return nil
}

// Delete removes v, its attributes and its data.
//
// Fails with errs.ErrLocked when v or its group is locked.
func (v *Var) Delete() error {
	if err := checkAttached(v); err != nil {
		return err
	}
	if err := checkUnlocked(v, v.Parent()); err != nil {
		return err
	}

	v.detach()

	return nil
}

func (v *Var) detach() {
	if v.group != nil {
		v.group.vars = removeItem(v.group.vars, v)
	}
	v.destroy()
}

func (v *Var) destroy() {
	v.attList.destroy()
	v.group = nil
	v.dims = nil
	v.data = values.Buffer{}
	v.deleted = true
}
