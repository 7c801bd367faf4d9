package dataset

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/cds/errs"
)

// Dim is a named axis length owned by a group.
//
// An unlimited dimension has no fixed length: its effective length is the
// largest sample count among the variables using it as first dimension.
type Dim struct {
	entity

	group     *Group
	length    int
	unlimited bool
}

var _ Object = (*Dim)(nil)

// Kind returns KindDim.
func (d *Dim) Kind() Kind { return KindDim }

// Parent returns the owning group.
func (d *Dim) Parent() Object {
	if d.group == nil {
		return nil
	}

	return d.group
}

// Group returns the owning group, or nil once deleted.
func (d *Dim) Group() *Group { return d.group }

// Path returns the absolute path of the dimension, such as /_dims_/time.
func (d *Dim) Path() string {
	if d.group == nil {
		return childPath("", dimsSegment, d.name)
	}

	return childPath(d.group.Path(), dimsSegment, d.name)
}

// IsUnlimited reports whether the dimension length tracks the samples written.
func (d *Dim) IsUnlimited() bool { return d.unlimited }

// DefinedLength returns the length given at definition, 0 for unlimited dimensions.
func (d *Dim) DefinedLength() int { return d.length }

// Length returns the effective length of the dimension.
//
// For unlimited dimensions this is the largest sample count among variables
// in the owning group subtree using d as their first dimension.
func (d *Dim) Length() int {
	if !d.unlimited {
		return d.length
	}
	if d.group == nil {
		return 0
	}

	n := 0
	_ = d.group.Walk(func(g *Group) error {
		for _, v := range g.vars {
			if len(v.dims) > 0 && v.dims[0] == d {
				n = max(n, v.SampleCount())
			}
		}

		return nil
	})

	return n
}

// ChangeLength sets the length of a fixed dimension.
//
// It succeeds without change when n equals the current length. It fails
// with errs.ErrLocked when d is locked, and with errs.ErrConflict once any
// variable in the owning group subtree that references d holds sample data.
// Otherwise an unlimited dimension is left unchanged, since its length
// follows the samples written.
func (d *Dim) ChangeLength(n int) error {
	if err := checkAttached(d); err != nil {
		return err
	}
	if n == d.Length() {
		return nil
	}
	if n < 0 {
		return fmt.Errorf("%w: negative length %d for dimension %s", errs.ErrType, n, d.Path())
	}
	if err := checkUnlocked(d); err != nil {
		return err
	}
	if d.group.IsDimUsed(d) {
		return fmt.Errorf("%w: dimension %s is used by variables holding data", errs.ErrConflict, d.Path())
	}
	if d.unlimited {
		return nil
	}

	d.group.Logger().WithFields(logrus.Fields{
		"path": d.Path(),
		"from": d.length,
		"to":   n,
	}).Debug("dimension length changed")
	d.length = n

	return nil
}

// Rename changes the name of d and of its coordinate variable, the variable
// of the owning group with the same name, if one exists.
//
// Both renames are checked before either is applied, so a failure leaves
// both names unchanged.
func (d *Dim) Rename(name string) error {
	if err := checkAttached(d); err != nil {
		return err
	}
	if name == d.name {
		return nil
	}
	if err := validateName(KindDim, name); err != nil {
		return err
	}
	if err := checkUnlocked(d, d.Parent()); err != nil {
		return err
	}
	if d.group.localDim(name) != nil {
		return fmt.Errorf("%w: dimension %s already exists", errs.ErrConflict, childPath(d.group.Path(), dimsSegment, name))
	}

	coord := d.group.Var(d.name)
	if coord != nil {
		if err := coord.checkRename(name); err != nil {
			return fmt.Errorf("renaming coordinate variable of %s: %w", d.Path(), err)
		}
	}

	old := d.name
	d.name = name
	if coord != nil {
		coord.name = name
		d.group.Logger().WithFields(logrus.Fields{
			"path": d.Path(),
			"from": old,
		}).Debug("coordinate variable renamed with its dimension")
	}

	return nil
}

// Delete removes d and every variable in the owning group subtree that
// references it.
//
// All affected variables are lock checked before anything is removed: a
// locked dimension, group or variable fails the whole operation with
// errs.ErrLocked and leaves the graph unchanged.
func (d *Dim) Delete() error {
	if err := checkAttached(d); err != nil {
		return err
	}
	if err := checkUnlocked(d, d.Parent()); err != nil {
		return err
	}

	var victims []*Var
	_ = d.group.Walk(func(g *Group) error {
		for _, v := range g.vars {
			if v.usesDim(d) {
				victims = append(victims, v)
			}
		}

		return nil
	})

	for _, v := range victims {
		if err := checkUnlocked(v, v.Parent()); err != nil {
			return fmt.Errorf("deleting dimension %s: %w", d.Path(), err)
		}
	}

	log := d.group.Logger()
	for _, v := range victims {
		log.WithFields(logrus.Fields{
			"path":      v.Path(),
			"dimension": d.Path(),
		}).Debug("variable deleted with its dimension")
		v.detach()
	}

	d.group.dims = removeItem(d.group.dims, d)
	d.destroy()

	return nil
}

func (d *Dim) destroy() {
	d.group = nil
	d.deleted = true
}

func (d *Dim) describe() string {
	if d.unlimited {
		return "unlimited"
	}

	return fmt.Sprintf("length %d", d.length)
}
