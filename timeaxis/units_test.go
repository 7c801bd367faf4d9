package timeaxis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/cds/errs"
)

func TestParseUnits(t *testing.T) {
	tests := []struct {
		name     string
		units    string
		wantUnit time.Duration
		wantBase time.Time
	}{
		{"arm style", "seconds since 2024-01-02 00:00:00 0:00", time.Second, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"iso with zulu", "hours since 2024-01-02T06:30:00Z", time.Hour, time.Date(2024, 1, 2, 6, 30, 0, 0, time.UTC)},
		{"date only", "days since 2000-01-01", Day, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"offset and fraction", "minutes since 2024-01-02 00:00:00.5 +02:00", time.Minute, time.Date(2024, 1, 1, 22, 0, 0, 500_000_000, time.UTC)},
		{"utc suffix", "s since 2024-01-02 12:00:00 UTC", time.Second, time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)},
		{"no seconds", "Seconds since 2024-01-02 12:30", time.Second, time.Date(2024, 1, 2, 12, 30, 0, 0, time.UTC)},
		{"single digit hour", "sec since 2024-01-02 6:00:00", time.Second, time.Date(2024, 1, 2, 6, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := ParseUnits(tt.units)
			require.NoError(t, err)
			require.Equal(t, tt.wantUnit, u.Unit)
			require.True(t, tt.wantBase.Equal(u.Base), "got %s", u.Base)
			require.Equal(t, time.UTC, u.Base.Location())
		})
	}
}

func TestParseUnits_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"furlongs since 2024-01-01",
		"seconds after 2024-01-01",
		"seconds since yesterday",
		"seconds since 2024-13-01",
	} {
		_, err := ParseUnits(s)
		require.ErrorIs(t, err, errs.ErrType, s)
	}
}

func TestUnits_String(t *testing.T) {
	u := Units{Unit: time.Second, Base: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}
	require.Equal(t, "seconds since 2024-01-02 00:00:00 0:00", u.String())

	u = Units{Unit: Day, Base: time.Date(2024, 1, 2, 3, 4, 5, 500_000_000, time.UTC)}
	require.Equal(t, "days since 2024-01-02 03:04:05.5 0:00", u.String())

	parsed, err := ParseUnits(u.String())
	require.NoError(t, err)
	require.Equal(t, u.Unit, parsed.Unit)
	require.True(t, u.Base.Equal(parsed.Base))
}

func TestUnits_Offset(t *testing.T) {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	u := Units{Unit: time.Minute, Base: base}

	ts := base.Add(90 * time.Second)
	require.InDelta(t, 1.5, u.Offset(ts), 1e-12)
	require.True(t, ts.Equal(u.Time(1.5)))
	require.True(t, base.Add(-time.Hour).Equal(u.Time(-60)))
}

func TestMidnight(t *testing.T) {
	ts := time.Date(2024, 3, 5, 23, 59, 59, 0, time.FixedZone("east", 3*3600))
	require.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Midnight(ts))
}
