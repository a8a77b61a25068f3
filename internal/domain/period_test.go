package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestPeriodEndMonthly(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{"plain month", date(2026, time.March, 15), date(2026, time.April, 15)},
		{"jan 31 leap year clamps to feb 29", date(2024, time.January, 31), date(2024, time.February, 29)},
		{"jan 31 non-leap clamps to feb 28", date(2025, time.January, 31), date(2025, time.February, 28)},
		{"dec rolls into next year", date(2025, time.December, 10), date(2026, time.January, 10)},
		{"may 31 clamps to jun 30", date(2026, time.May, 31), date(2026, time.June, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PeriodEnd(tt.start, IntervalMonthly)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "PeriodEnd(%v) = %v, want %v", tt.start, got, tt.want)
		})
	}
}

func TestPeriodEndYearly(t *testing.T) {
	got, err := PeriodEnd(date(2026, time.March, 15), IntervalYearly)
	require.NoError(t, err)
	assert.True(t, got.Equal(date(2027, time.March, 15)))

	// Feb 29 start clamps on non-leap target year.
	got, err = PeriodEnd(date(2024, time.February, 29), IntervalYearly)
	require.NoError(t, err)
	assert.True(t, got.Equal(date(2025, time.February, 28)))
}

func TestPeriodEndLifetime(t *testing.T) {
	end, err := PeriodEnd(date(2026, time.March, 15), IntervalLifetime)
	require.NoError(t, err)
	assert.Equal(t, 2126, end.Year())
	assert.Equal(t, time.March, end.Month())
}

func TestPeriodEndUnknownInterval(t *testing.T) {
	for _, interval := range []string{"", "weekly", "MONTHLY"} {
		_, err := PeriodEnd(date(2026, time.March, 15), interval)
		assert.Error(t, err, "interval %q", interval)
	}
}

func TestPeriodEndPreservesClock(t *testing.T) {
	start := time.Date(2026, time.January, 31, 23, 45, 7, 123, time.UTC)
	end, err := PeriodEnd(start, IntervalMonthly)
	require.NoError(t, err)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 45, end.Minute())
	assert.Equal(t, 7, end.Second())
}
