package timeaxis

import (
	"cmp"
	"sort"
	"time"
)

// Mode selects which index FindIndex reports.
type Mode uint8

const (
	FirstEqual          Mode = iota + 1 // FirstEqual selects the first element equal to the reference.
	FirstGreater                        // FirstGreater selects the first element after the reference.
	FirstGreaterOrEqual                 // FirstGreaterOrEqual selects the first element not before the reference.
	LastLess                            // LastLess selects the last element before the reference.
	LastLessOrEqual                     // LastLessOrEqual selects the last element not after the reference.
)

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case FirstEqual:
		return "first-equal"
	case FirstGreater:
		return "first-greater"
	case FirstGreaterOrEqual:
		return "first-greater-or-equal"
	case LastLess:
		return "last-less"
	case LastLessOrEqual:
		return "last-less-or-equal"
	default:
		return "unknown"
	}
}

// FindIndex searches the non-decreasing slice ts for the index selected by
// mode relative to ref. It returns -1 when no element qualifies or mode is
// unknown.
func FindIndex[T cmp.Ordered](ts []T, ref T, mode Mode) int {
	return findIndex(len(ts), func(i int) int { return cmp.Compare(ts[i], ref) }, mode)
}

// FindTimeIndex is FindIndex over times.
func FindTimeIndex(ts []time.Time, ref time.Time, mode Mode) int {
	return findIndex(len(ts), func(i int) int { return ts[i].Compare(ref) }, mode)
}

// findIndex bisects for the bounds of the run of elements equal to the
// reference; compare(i) orders element i against it.
func findIndex(n int, compare func(int) int, mode Mode) int {
	lower := sort.Search(n, func(i int) bool { return compare(i) >= 0 })
	upper := lower + sort.Search(n-lower, func(i int) bool { return compare(lower+i) > 0 })

	var idx int
	switch mode {
	case FirstEqual:
		if lower == upper {
			return -1
		}
		idx = lower
	case FirstGreaterOrEqual:
		idx = lower
	case FirstGreater:
		idx = upper
	case LastLess:
		idx = lower - 1
	case LastLessOrEqual:
		idx = upper - 1
	default:
		return -1
	}

	if idx < 0 || idx >= n {
		return -1
	}

	return idx
}
