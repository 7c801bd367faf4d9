package timeaxis

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/arloliu/cds/errs"
)

// Day is the length of the "days" time unit.
const Day = 24 * time.Hour

// Units is a parsed "<unit> since <timestamp>" string: the scale of the
// stored offsets and the base time they are measured from.
type Units struct {
	Unit time.Duration
	Base time.Time
}

var unitNames = map[string]time.Duration{
	"seconds": time.Second,
	"second":  time.Second,
	"secs":    time.Second,
	"sec":     time.Second,
	"s":       time.Second,
	"minutes": time.Minute,
	"minute":  time.Minute,
	"mins":    time.Minute,
	"min":     time.Minute,
	"hours":   time.Hour,
	"hour":    time.Hour,
	"hrs":     time.Hour,
	"hr":      time.Hour,
	"h":       time.Hour,
	"days":    Day,
	"day":     Day,
	"d":       Day,
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 -07:00",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseUnits parses a time units string such as
// "seconds since 2024-01-02 00:00:00 0:00".
//
// The unit is seconds, minutes, hours or days, or one of their usual
// abbreviations. The timestamp is YYYY-MM-DD, optionally followed by a time
// of day separated by a space or 'T', and optionally by a zone: Z, UTC,
// 0:00 or a ±hh:mm offset.
//
// Returns errs.ErrType when s cannot be parsed.
func ParseUnits(s string) (Units, error) {
	unit, stamp, ok := strings.Cut(strings.TrimSpace(s), " since ")
	if !ok {
		return Units{}, fmt.Errorf("%w: time units %q lack \"since\"", errs.ErrType, s)
	}

	scale, ok := unitNames[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return Units{}, fmt.Errorf("%w: unknown time unit %q", errs.ErrType, unit)
	}

	base, err := parseTimestamp(stamp)
	if err != nil {
		return Units{}, fmt.Errorf("%w: time units %q: %w", errs.ErrType, s, err)
	}

	return Units{Unit: scale, Base: base}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10] + " " + s[11:]
	}
	for _, suffix := range []string{" UTC", " utc", "Z", " 0:00", " 00:00"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}

	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, err
}

// String formats u in the form accepted by ParseUnits.
func (u Units) String() string {
	return fmt.Sprintf("%s since %s", unitName(u.Unit), u.Base.UTC().Format("2006-01-02 15:04:05.999 0:00"))
}

// Offset returns t as a number of units after the base time.
func (u Units) Offset(t time.Time) float64 {
	return float64(t.Sub(u.Base)) / float64(u.Unit)
}

// Time returns the time offset units after the base time.
func (u Units) Time(offset float64) time.Time {
	return u.Base.Add(time.Duration(math.Round(offset * float64(u.Unit))))
}

func unitName(d time.Duration) string {
	switch d {
	case time.Minute:
		return "minutes"
	case time.Hour:
		return "hours"
	case Day:
		return "days"
	default:
		return "seconds"
	}
}

// Midnight returns the UTC midnight at or before t.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
