package values

import (
	"fmt"
	"reflect"

	"github.com/arloliu/cds/errs"
)

// BuildIndex returns a nested slice view over the flat elements of b.
//
// For lengths [d0, d1, ..., dk] the result has type [][]...[]T with k+1
// levels; the innermost slices share memory with b, so writes through the
// index are visible in the buffer. Row major order is assumed.
//
// Returns errs.ErrType if fewer than two lengths are given or their product
// does not match b.Len().
func BuildIndex(b Buffer, lengths []int) (any, error) {
	if len(lengths) < 2 {
		return nil, fmt.Errorf("%w: index needs at least two dimensions, got %d", errs.ErrType, len(lengths))
	}
	if b.data == nil {
		return nil, fmt.Errorf("%w: cannot index an empty buffer", errs.ErrType)
	}

	total := 1
	for _, l := range lengths {
		if l < 0 {
			return nil, fmt.Errorf("%w: negative dimension length %d", errs.ErrType, l)
		}
		total *= l
	}
	if total != b.Len() {
		return nil, fmt.Errorf("%w: dimensions %v hold %d elements, buffer has %d", errs.ErrType, lengths, total, b.Len())
	}

	return buildLevel(reflect.ValueOf(b.data), lengths).Interface(), nil
}

func buildLevel(flat reflect.Value, lengths []int) reflect.Value {
	if len(lengths) == 1 {
		return flat
	}

	stride := 1
	for _, l := range lengths[1:] {
		stride *= l
	}

	t := flat.Type()
	for range lengths[1:] {
		t = reflect.SliceOf(t)
	}

	out := reflect.MakeSlice(t, lengths[0], lengths[0])
	for i := 0; i < lengths[0]; i++ {
		lo, hi := i*stride, (i+1)*stride
		out.Index(i).Set(buildLevel(flat.Slice3(lo, hi, hi), lengths[1:]))
	}

	return out
}

// Index2 returns rows of length cols over the elements of b.
func Index2[T Element](b Buffer, rows, cols int) ([][]T, error) {
	idx, err := BuildIndex(b, []int{rows, cols})
	if err != nil {
		return nil, err
	}
	out, ok := idx.([][]T)
	if !ok {
		return nil, fmt.Errorf("%w: buffer does not hold %T elements", errs.ErrType, *new(T))
	}

	return out, nil
}

// Index3 returns a three level view over the elements of b.
func Index3[T Element](b Buffer, d0, d1, d2 int) ([][][]T, error) {
	idx, err := BuildIndex(b, []int{d0, d1, d2})
	if err != nil {
		return nil, err
	}
	out, ok := idx.([][][]T)
	if !ok {
		return nil, fmt.Errorf("%w: buffer does not hold %T elements", errs.ErrType, *new(T))
	}

	return out, nil
}
