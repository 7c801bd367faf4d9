package dataset

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/values"
)

const (
	missingValueAtt = "missing_value"
	fillValueAtt    = "_FillValue"
)

// validAttNames are the attributes holding values in the type of their variable.
var validAttNames = []string{"valid_min", "valid_max", "valid_range"}

// MissingValues returns every value v uses to mark missing data, in the
// type of v and without duplicates.
//
// The missing_value attribute comes first, then _FillValue, then the other
// recognized missing value attributes in definition order, then the default
// fill of the type. Character attributes of numeric variables are parsed,
// with out of range numbers replaced by the default fill.
func (v *Var) MissingValues() values.Buffer {
	fill, err := values.DefaultFill(v.typ)
	if err != nil {
		return values.Buffer{}
	}

	var out values.Buffer
	add := func(a *Att) {
		b, ok := v.missingFromAtt(a)
		if !ok {
			return
		}
		if merged, err := out.Append(b); err == nil {
			out = merged
		}
	}

	add(v.Att(missingValueAtt))
	add(v.Att(fillValueAtt))
	for _, a := range v.atts {
		if a.name == missingValueAtt || a.name == fillValueAtt {
			continue
		}
		if values.IsMissingValueAttName(a.name) {
			add(a)
		}
	}

	if merged, err := out.Append(fill); err == nil {
		out = merged
	}

	return values.UniqueMissing(out)
}

func (v *Var) missingFromAtt(a *Att) (values.Buffer, bool) {
	if a == nil || a.value.IsEmpty() {
		return values.Buffer{}, false
	}

	src := a.value
	switch {
	case src.Type() == v.typ:
		return src, true
	case src.Type() == format.TypeChar && v.typ == format.TypeString:
		return values.Strings(values.NormalizeText(src)), true
	case src.Type() == format.TypeChar:
		b, n, err := values.ParseTextFill(values.NormalizeText(src), v.typ, 0)
		if err != nil || n == 0 {
			return values.Buffer{}, false
		}

		return b, true
	case src.Type() == format.TypeString || v.typ == format.TypeString:
		return values.Buffer{}, false
	default:
		b, err := values.Cast(src, v.typ)
		if err != nil {
			return values.Buffer{}, false
		}

		return b, true
	}
}

// ChangeType converts v to type t.
//
// The data and every missing value or valid_* attribute stored in the old
// type of v are converted. Missing values map to their counterparts in t
// (see values.RemapMissing) so they keep marking missing data.
//
// Fails with errs.ErrLocked when v, its group or a converted attribute is
// locked, and with errs.ErrType for an unsupported type or a conversion
// between text and numbers.
func (v *Var) ChangeType(t format.TypeID) error {
	if err := checkAttached(v); err != nil {
		return err
	}
	if t == v.typ {
		return nil
	}
	if !t.Valid() {
		return fmt.Errorf("%w: unsupported type %s for variable %s", errs.ErrType, t, v.Path())
	}
	if (t == format.TypeString) != (v.typ == format.TypeString) {
		return fmt.Errorf("%w: cannot change %s variable %s to %s", errs.ErrType, v.typ, v.Path(), t)
	}
	if err := checkUnlocked(v, v.Parent()); err != nil {
		return err
	}

	from := v.MissingValues()
	to, err := values.RemapMissing(from, t)
	if err != nil {
		return fmt.Errorf("%s: %w", v.Path(), err)
	}
	remap := values.WithValueMap(from, to)

	var atts []*Att
	var converted []values.Buffer
	for _, a := range v.atts {
		if a.value.Type() != v.typ {
			continue
		}
		missing := values.IsMissingValueAttName(a.name)
		if !missing && !isValidAttName(a.name) {
			continue
		}
		if err := checkUnlocked(a); err != nil {
			return err
		}

		var b values.Buffer
		if missing {
			b, err = values.Cast(a.value, t, remap)
		} else {
			b, err = values.Cast(a.value, t)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", a.Path(), err)
		}
		atts = append(atts, a)
		converted = append(converted, b)
	}

	data := v.data
	if data.IsValid() {
		if data, err = values.Cast(v.data, t, remap); err != nil {
			return fmt.Errorf("%s: %w", v.Path(), err)
		}
	}

	for i, a := range atts {
		a.value = converted[i]
	}
	v.group.Logger().WithFields(logrus.Fields{
		"path": v.Path(),
		"from": v.typ,
		"to":   t,
	}).Debug("variable type changed")
	v.typ = t
	v.data = data

	return nil
}

// Checksum returns a 64-bit fingerprint of the type and data of v.
func (v *Var) Checksum() uint64 {
	return values.Fingerprint(v.data)
}

func isValidAttName(name string) bool {
	for _, n := range validAttNames {
		if strings.EqualFold(name, n) {
			return true
		}
	}

	return false
}
