package values

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
)

// Compare compares the first n elements of a and b.
//
// Elements are compared exactly across mixed numeric types. A non-nil
// tolerance (any Go numeric type) treats elements whose absolute difference
// is at most tolerance as equal. NaN equals NaN and sorts above numbers.
// Numeric data sorts before string data. When one buffer holds fewer than n
// elements the shorter one is less at the first missing index.
//
// Parameters:
//   - a, b: Buffers to compare
//   - n: Number of leading elements to compare
//   - tolerance: Optional absolute tolerance, nil for exact comparison
//
// Returns:
//   - int: -1, 0 or 1 as a is less than, equal to or greater than b
//   - int: Index of the first mismatch, or -1 when equal
//   - error: errs.ErrType for an invalid tolerance
func Compare(a, b Buffer, n int, tolerance any) (int, int, error) {
	if n <= 0 {
		return 0, -1, nil
	}

	var tol float64
	hasTol := tolerance != nil
	if hasTol {
		t, ok := scalarNum(tolerance)
		if !ok {
			return 0, 0, fmt.Errorf("%w: invalid tolerance %v", errs.ErrType, tolerance)
		}
		tol = math.Abs(t.float())
	}

	la, lb := min(a.Len(), n), min(b.Len(), n)
	m := min(la, lb)

	aStr, bStr := a.typ == format.TypeString, b.typ == format.TypeString
	switch {
	case m == 0:
	case aStr && bStr:
		as, _ := Elements[string](a)
		bs, _ := Elements[string](b)
		for i := 0; i < m; i++ {
			if c := strings.Compare(as[i], bs[i]); c != 0 {
				return c, i, nil
			}
		}
	case aStr:
		return 1, 0, nil
	case bStr:
		return -1, 0, nil
	default:
		atA, okA := numReader(a.data)
		atB, okB := numReader(b.data)
		if !okA || !okB {
			return 0, 0, fmt.Errorf("%w: cannot compare %s with %s", errs.ErrType, a.typ, b.typ)
		}
		for i := 0; i < m; i++ {
			x, y := atA(i), atB(i)
			if hasTol && !x.isNaN() && !y.isNaN() && math.Abs(x.float()-y.float()) <= tol {
				continue
			}
			if c := cmpOrdered(x, y); c != 0 {
				return c, i, nil
			}
		}
	}

	switch {
	case la < lb:
		return -1, la, nil
	case la > lb:
		return 1, lb, nil
	default:
		return 0, -1, nil
	}
}
