package dataset

import (
	"fmt"
	"slices"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/values"
)

// Att is a named value attached to a group or a variable.
type Att struct {
	entity

	list  *attList
	value values.Buffer
}

var _ Object = (*Att)(nil)

// Kind returns KindAtt.
func (a *Att) Kind() Kind { return KindAtt }

// Parent returns the owning group or variable.
func (a *Att) Parent() Object {
	if a.list == nil {
		return nil
	}

	return a.list.owner
}

// Path returns the absolute path of the attribute, such as /_vars_/temp/_atts_/units.
func (a *Att) Path() string {
	if a.list == nil {
		return childPath("", attsSegment, a.name)
	}

	return childPath(a.list.owner.Path(), attsSegment, a.name)
}

// Type returns the element type of the value.
func (a *Att) Type() format.TypeID { return a.value.Type() }

// Len returns the number of elements of the value.
func (a *Att) Len() int { return a.value.Len() }

// Value returns the attribute value. The buffer shares memory with the attribute.
func (a *Att) Value() values.Buffer { return a.value }

// Text returns the value in normalized text form: character data without
// trailing NULs, or a comma separated list of numbers.
func (a *Att) Text() string { return values.NormalizeText(a.value) }

// Change replaces the type and value of a.
//
// Fails with errs.ErrLocked when a or its owner is locked.
func (a *Att) Change(value any) error {
	if err := checkAttached(a); err != nil {
		return err
	}
	buf, err := attValue(value)
	if err != nil {
		return fmt.Errorf("%s: %w", a.Path(), err)
	}
	if err := checkUnlocked(a, a.Parent()); err != nil {
		return err
	}

	a.value = buf.Clone()

	return nil
}

// Set replaces the value of a, converting it into the current type of a.
// An attribute without a type takes the type of value.
//
// Fails with errs.ErrLocked when a or its owner is locked, and with
// errs.ErrType when value cannot be converted.
func (a *Att) Set(value any) error {
	if err := checkAttached(a); err != nil {
		return err
	}
	buf, err := attValue(value)
	if err != nil {
		return fmt.Errorf("%s: %w", a.Path(), err)
	}
	if err := checkUnlocked(a, a.Parent()); err != nil {
		return err
	}

	if a.value.Type().Valid() && buf.Type() != a.value.Type() {
		buf, err = values.Cast(buf, a.value.Type())
		if err != nil {
			return fmt.Errorf("%s: %w", a.Path(), err)
		}
	} else {
		buf = buf.Clone()
	}
	a.value = buf

	return nil
}

// Rename changes the name of a.
//
// Fails with errs.ErrConflict when a sibling attribute uses name, and with
// errs.ErrLocked when a or its owner is locked.
func (a *Att) Rename(name string) error {
	if err := checkAttached(a); err != nil {
		return err
	}
	if name == a.name {
		return nil
	}
	if err := validateName(KindAtt, name); err != nil {
		return err
	}
	if err := checkUnlocked(a, a.Parent()); err != nil {
		return err
	}
	if a.list.Att(name) != nil {
		return fmt.Errorf("%w: attribute %s already exists", errs.ErrConflict, childPath(a.list.owner.Path(), attsSegment, name))
	}

	a.name = name

	return nil
}

// Delete removes a from its owner.
//
// Fails with errs.ErrLocked when a or its owner is locked.
func (a *Att) Delete() error {
	if err := checkAttached(a); err != nil {
		return err
	}
	if err := checkUnlocked(a, a.Parent()); err != nil {
		return err
	}

	a.list.atts = removeItem(a.list.atts, a)
	a.destroy()

	return nil
}

func (a *Att) destroy() {
	a.list = nil
	a.deleted = true
}

// attList holds the attributes of a group or a variable. Its exported
// methods are promoted to *Group and *Var.
type attList struct {
	owner Object
	atts  []*Att
}

// Att returns the attribute named name, or nil.
func (l *attList) Att(name string) *Att {
	for _, a := range l.atts {
		if a.name == name {
			return a
		}
	}

	return nil
}

// Atts returns the attributes in definition order.
func (l *attList) Atts() []*Att {
	return slices.Clone(l.atts)
}

// DefineAtt returns the attribute named name, creating it with value when absent.
//
// value may be a values.Buffer, a Go string (stored as character data), a
// Go number or a slice of numbers. An existing attribute with the same type
// and elements is returned as is; any other existing value fails with
// errs.ErrConflict. Creating fails with errs.ErrLocked when the owner is locked.
func (l *attList) DefineAtt(name string, value any) (*Att, error) {
	if err := checkAttached(l.owner); err != nil {
		return nil, err
	}
	if err := validateName(KindAtt, name); err != nil {
		return nil, err
	}
	buf, err := attValue(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", childPath(l.owner.Path(), attsSegment, name), err)
	}

	if a := l.Att(name); a != nil {
		if a.value.Equal(buf) {
			return a, nil
		}

		return nil, fmt.Errorf("%w: attribute %s already defined with a different value", errs.ErrConflict, a.Path())
	}
	if err := checkUnlocked(l.owner); err != nil {
		return nil, err
	}

	return l.add(name, buf.Clone()), nil
}

// DefineAttText is DefineAtt with a character value built by fmt.Sprintf.
func (l *attList) DefineAttText(name, layout string, args ...any) (*Att, error) {
	return l.DefineAtt(name, values.Textf(layout, args...))
}

// ChangeAtt creates the attribute named name or replaces its type and value.
//
// An existing non-empty attribute is only replaced when overwrite is set;
// otherwise it is returned unchanged. Fails with errs.ErrLocked when the
// owner or the existing attribute is locked.
func (l *attList) ChangeAtt(name string, value any, overwrite bool) (*Att, error) {
	return l.changeAtt(name, value, overwrite, false)
}

// SetAtt creates the attribute named name or replaces its value, converting
// value into the type of the existing attribute.
//
// An existing non-empty attribute is only replaced when overwrite is set;
// otherwise it is returned unchanged. Fails with errs.ErrLocked when the
// owner or the existing attribute is locked, and with errs.ErrType when
// value cannot be converted.
func (l *attList) SetAtt(name string, value any, overwrite bool) (*Att, error) {
	return l.changeAtt(name, value, overwrite, true)
}

// SetAttText is SetAtt with a character value built by fmt.Sprintf.
func (l *attList) SetAttText(name string, overwrite bool, layout string, args ...any) (*Att, error) {
	return l.SetAtt(name, values.Textf(layout, args...), overwrite)
}

func (l *attList) changeAtt(name string, value any, overwrite, convert bool) (*Att, error) {
	if err := checkAttached(l.owner); err != nil {
		return nil, err
	}
	if err := validateName(KindAtt, name); err != nil {
		return nil, err
	}
	buf, err := attValue(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", childPath(l.owner.Path(), attsSegment, name), err)
	}

	a := l.Att(name)
	if err := checkUnlocked(l.owner, attObject(a)); err != nil {
		return nil, err
	}

	if a == nil {
		return l.add(name, buf.Clone()), nil
	}
	if !a.value.IsEmpty() && !overwrite {
		return a, nil
	}

	if convert {
		err = a.Set(buf)
	} else {
		err = a.Change(buf)
	}
	if err != nil {
		return nil, err
	}

	return a, nil
}

// DeleteAtt removes the attribute named name. Deleting an absent attribute
// is not an error.
func (l *attList) DeleteAtt(name string) error {
	a := l.Att(name)
	if a == nil {
		return nil
	}

	return a.Delete()
}

func (l *attList) add(name string, buf values.Buffer) *Att {
	a := &Att{entity: entity{name: name}, list: l, value: buf}
	l.atts = append(l.atts, a)

	return a
}

func (l *attList) destroy() {
	for _, a := range l.atts {
		a.destroy()
	}
	l.atts = nil
}

// attObject avoids storing a typed nil *Att in an Object.
func attObject(a *Att) Object {
	if a == nil {
		return nil
	}

	return a
}

// attValue converts an attribute value argument into a buffer.
// Go strings become character data.
func attValue(value any) (values.Buffer, error) {
	if s, ok := value.(string); ok {
		return values.Text(s), nil
	}

	return values.Scalar(value)
}
