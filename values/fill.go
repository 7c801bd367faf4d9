package values

import (
	"fmt"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
)

// Fill sets every element of dst to value.
//
// A nil value fills with the default fill of the buffer type. Numeric values
// of any Go type are converted to the element type with clamping, and the
// first element of a Buffer value is used. String buffers take a string value.
func Fill(dst Buffer, value any) error {
	if value == nil {
		v, ok := format.DefaultFill(dst.typ)
		if !ok {
			return fmt.Errorf("%w: no default fill for %s", errs.ErrType, dst.typ)
		}
		value = v
	}

	if ss, ok := Elements[string](dst); ok {
		s, ok := value.(string)
		if !ok {
			if b, isBuf := value.(Buffer); isBuf {
				if bs, _ := Elements[string](b); len(bs) > 0 {
					s, ok = bs[0], true
				}
			}
		}
		if !ok {
			return fmt.Errorf("%w: cannot fill string buffer with %T", errs.ErrType, value)
		}
		for i := range ss {
			ss[i] = s
		}

		return nil
	}

	x, ok := scalarNum(value)
	if !ok {
		return fmt.Errorf("%w: cannot fill %s buffer with %T", errs.ErrType, dst.typ, value)
	}

	set, ok := numWriter(dst)
	if !ok {
		return fmt.Errorf("%w: cannot fill %s buffer", errs.ErrType, dst.typ)
	}

	n := dst.Len()
	if n == 0 {
		return nil
	}

	// convert once, then copy the element through the typed slice
	set(0, x)
	switch s := dst.data.(type) {
	case []int8:
		fillRest(s)
	case []int16:
		fillRest(s)
	case []int32:
		fillRest(s)
	case []int64:
		fillRest(s)
	case []uint8:
		fillRest(s)
	case []uint16:
		fillRest(s)
	case []uint32:
		fillRest(s)
	case []uint64:
		fillRest(s)
	case []float32:
		fillRest(s)
	case []float64:
		fillRest(s)
	}

	return nil
}

func fillRest[T Number](s []T) {
	for i := 1; i < len(s); i++ {
		s[i] = s[0]
	}
}

// NewFilled returns a buffer of n elements of type t set to value.
// A nil value uses the default fill of t.
func NewFilled(t format.TypeID, n int, value any) (Buffer, error) {
	b, err := New(t, n)
	if err != nil {
		return Buffer{}, err
	}

	if err := Fill(b, value); err != nil {
		return Buffer{}, err
	}

	return b, nil
}

// DefaultFill returns a single element buffer holding the default fill of t.
func DefaultFill(t format.TypeID) (Buffer, error) {
	return NewFilled(t, 1, nil)
}
