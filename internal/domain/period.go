package domain

import (
	"fmt"
	"time"
)

// lifetimeYears is the "effectively forever" horizon for lifetime plans.
// A lifetime subscription stores a concrete period end so all period
// comparisons stay uniform; 100 years is a sentinel, not a promise.
const lifetimeYears = 100

// PeriodEnd returns the end of a billing period starting at start.
// Monthly and yearly use calendar semantics: the day-of-month is clamped
// to the target month's length, so Jan 31 + 1 month is Feb 29 on a leap
// year, not Mar 2. An interval outside the known set is an error so a
// corrupt plan row cannot quietly bill monthly.
func PeriodEnd(start time.Time, interval string) (time.Time, error) {
	switch interval {
	case IntervalMonthly:
		return addMonthsClamped(start, 1), nil
	case IntervalYearly:
		return addMonthsClamped(start, 12), nil
	case IntervalLifetime:
		return addMonthsClamped(start, 12*lifetimeYears), nil
	default:
		return time.Time{}, fmt.Errorf("unknown billing interval %q", interval)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	// First of the target month, then clamp the day.
	anchor := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysInMonth(anchor.Year(), anchor.Month()); day > last {
		day = last
	}
	return time.Date(anchor.Year(), anchor.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
