package schema

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
	"github.com/arloliu/cds/values"
)

// valueBuffer converts a decoded schema value into a buffer of the type
// named by typeName, or of the inferred type when typeName is empty.
func valueBuffer(raw any, typeName string) (values.Buffer, error) {
	if raw == nil {
		return values.Buffer{}, fmt.Errorf("%w: missing value", errs.ErrType)
	}

	t := format.TypeUndefined
	if typeName != "" {
		var ok bool
		if t, ok = format.ParseTypeID(typeName); !ok {
			return values.Buffer{}, fmt.Errorf("%w: unknown type %q", errs.ErrType, typeName)
		}
	}

	items, isList := listOf(raw)
	if t == format.TypeUndefined {
		var err error
		if t, err = inferType(items, isList); err != nil {
			return values.Buffer{}, err
		}
	}

	switch {
	case t == format.TypeChar:
		if isList {
			ss, err := cast.ToStringSliceE(items)
			if err != nil {
				return values.Buffer{}, fmt.Errorf("%w: %v", errs.ErrType, err)
			}
			return values.Text(strings.Join(ss, "")), nil
		}
		s, err := cast.ToStringE(raw)
		if err != nil {
			return values.Buffer{}, fmt.Errorf("%w: %v", errs.ErrType, err)
		}

		return values.Text(s), nil

	case t == format.TypeString:
		ss := make([]string, len(items))
		for i, item := range items {
			s, err := cast.ToStringE(item)
			if err != nil {
				return values.Buffer{}, fmt.Errorf("%w: %v", errs.ErrType, err)
			}
			ss[i] = s
		}

		return values.Strings(ss...), nil

	case t == format.TypeUInt64:
		us := make([]uint64, len(items))
		for i, item := range items {
			u, err := cast.ToUint64E(item)
			if err != nil {
				return values.Buffer{}, fmt.Errorf("%w: %v", errs.ErrType, err)
			}
			us[i] = u
		}

		return values.Of(us), nil

	case format.IsInteger(t):
		ns := make([]int64, len(items))
		for i, item := range items {
			n, err := toInt64(item)
			if err != nil {
				return values.Buffer{}, err
			}
			ns[i] = n
		}

		return convertExact(values.Of(ns), t)

	default:
		fs := make([]float64, len(items))
		for i, item := range items {
			f, err := cast.ToFloat64E(item)
			if err != nil {
				return values.Buffer{}, fmt.Errorf("%w: %v", errs.ErrType, err)
			}
			fs[i] = f
		}

		return values.Cast(values.Of(fs), t)
	}
}

func listOf(raw any) ([]any, bool) {
	switch x := raw.(type) {
	case []any:
		return x, true
	case []string:
		items := make([]any, len(x))
		for i, s := range x {
			items[i] = s
		}

		return items, true
	default:
		return []any{raw}, false
	}
}

// inferType picks a type for untyped values.
func inferType(items []any, isList bool) (format.TypeID, error) {
	if len(items) == 0 {
		return format.TypeUndefined, fmt.Errorf("%w: cannot infer the type of an empty list", errs.ErrType)
	}

	var strs, ints, floats int
	fitsInt := true
	for _, item := range items {
		switch x := item.(type) {
		case string:
			strs++
		case int, int8, int16, int32, int64, uint8, uint16, uint32:
			ints++
			n := cast.ToInt64(x)
			fitsInt = fitsInt && n >= math.MinInt32 && n <= math.MaxInt32
		case uint, uint64:
			ints++
			fitsInt = false
		case float32, float64:
			floats++
		default:
			return format.TypeUndefined, fmt.Errorf("%w: unsupported value %v (%T)", errs.ErrType, item, item)
		}
	}

	switch {
	case strs == len(items) && !isList:
		return format.TypeChar, nil
	case strs == len(items):
		return format.TypeString, nil
	case strs > 0:
		return format.TypeUndefined, fmt.Errorf("%w: list mixes text and numbers", errs.ErrType)
	case floats > 0:
		return format.TypeDouble, nil
	case fitsInt:
		return format.TypeInt, nil
	default:
		return format.TypeInt64, nil
	}
}

func toInt64(item any) (int64, error) {
	if f, ok := item.(float64); ok {
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%w: %v is not an integer", errs.ErrType, f)
		}
	}
	n, err := cast.ToInt64E(item)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrType, err)
	}

	return n, nil
}

// convertExact casts integers to t and fails when a value does not fit.
func convertExact(src values.Buffer, t format.TypeID) (values.Buffer, error) {
	dst, err := values.Cast(src, t)
	if err != nil {
		return values.Buffer{}, err
	}
	back, err := values.Cast(dst, src.Type())
	if err != nil {
		return values.Buffer{}, err
	}
	if !back.Equal(src) {
		return values.Buffer{}, fmt.Errorf("%w: values %v do not fit in %s", errs.ErrType, src, t)
	}

	return dst, nil
}
