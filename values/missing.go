package values

import (
	"fmt"
	"strings"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
)

// missingAttNames are the attribute names recognized as missing value
// declarations, compared case-insensitively.
var missingAttNames = []string{"missing_value", "_fillvalue", "missing_data", "missing-value"}

// IsMissingValueAttName reports whether name declares missing values.
// Names starting with "missing_value" (such as missing_value_2) also qualify.
func IsMissingValueAttName(name string) bool {
	lower := strings.ToLower(name)
	for _, n := range missingAttNames {
		if lower == n {
			return true
		}
	}

	return strings.HasPrefix(lower, "missing_value")
}

// RemapMissing converts a list of missing values of one type into another.
//
// The result is parallel to src: element k of the result stands for element
// k of src. The source default fill maps to the destination default fill,
// values exactly representable in dstType convert unchanged, and the rest
// are replaced by the first representable converted value, or by the
// destination default fill when there is none.
//
// Returns errs.ErrType for conversions between text and numbers.
func RemapMissing(src Buffer, dstType format.TypeID) (Buffer, error) {
	if src.typ == format.TypeString || dstType == format.TypeString {
		if src.typ != dstType {
			return Buffer{}, fmt.Errorf("%w: cannot remap %s missing values to %s", errs.ErrType, src.typ, dstType)
		}

		return src.Clone(), nil
	}

	dst, err := New(dstType, src.Len())
	if err != nil {
		return Buffer{}, err
	}
	if src.Len() == 0 {
		return dst, nil
	}

	read, ok := numReader(src.data)
	if !ok {
		return Buffer{}, fmt.Errorf("%w: cannot remap %s missing values", errs.ErrType, src.typ)
	}
	write, _ := numWriter(dst)

	srcFillValue, _ := format.DefaultFill(src.typ)
	srcFill, _ := scalarNum(srcFillValue)
	dstFillValue, _ := format.DefaultFill(dstType)
	dstFill, _ := scalarNum(dstFillValue)

	var pending []int
	var substitute *num
	for k, n := 0, src.Len(); k < n; k++ {
		x := read(k)
		switch {
		case cmpOrdered(x, srcFill) == 0:
			write(k, dstFill)
		case fitsType(dst, x):
			write(k, x)
			if substitute == nil {
				v := x
				substitute = &v
			}
		default:
			pending = append(pending, k)
		}
	}

	for _, k := range pending {
		if substitute != nil {
			write(k, *substitute)
		} else {
			write(k, dstFill)
		}
	}

	return dst, nil
}

// UniqueMissing returns the distinct elements of b in order of first appearance.
func UniqueMissing(b Buffer) Buffer {
	n := b.Len()
	if n < 2 {
		return b.Clone()
	}

	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		dup := false
		for _, j := range keep {
			if sign, _, _ := Compare(b.Slice(i, i+1), b.Slice(j, j+1), 1, nil); sign == 0 {
				dup = true
				break
			}
		}
		if !dup {
			keep = append(keep, i)
		}
	}

	out := Buffer{typ: b.typ}
	for _, i := range keep {
		out, _ = out.Append(b.Slice(i, i+1))
	}

	return out
}
