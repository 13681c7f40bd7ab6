package timeseries

import (
	"fmt"
	"time"
)

// MonthStart returns midnight UTC on the first day of t's calendar month.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// AddMonths returns the first of the month n months after t's month.
// Negative n moves backwards.
func AddMonths(t time.Time, n int) time.Time {
	return MonthStart(t).AddDate(0, n, 0)
}

// MonthsAfter returns the n consecutive month starts strictly after last.
func MonthsAfter(last time.Time, n int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	out := make([]time.Time, n)
	for i := range out {
		out[i] = AddMonths(last, i+1)
	}
	return out
}

// MonthsBetween returns the number of calendar months from a to b; negative when
// b is in an earlier month.
func MonthsBetween(a, b time.Time) int {
	return monthKey(b) - monthKey(a)
}

// monthKey numbers calendar months consecutively so that a lag of k months is a
// difference of k.
func monthKey(t time.Time) int {
	y, m, _ := t.Date()
	return y*12 + int(m) - 1
}

// checkMonthly verifies that timestamps fall in strictly increasing calendar months
// and that the spacing between them is monthly. Gaps are allowed, but a series whose
// every step is a multiple of k > 1 months (quarterly, annual) is rejected.
func checkMonthly(timestamps []time.Time) error {
	step := 0
	for i := 1; i < len(timestamps); i++ {
		d := monthKey(timestamps[i]) - monthKey(timestamps[i-1])
		if d <= 0 {
			return fmt.Errorf("%w: %s does not follow %s by at least one month",
				ErrAlignmentMismatch,
				timestamps[i].Format("2006-01-02"), timestamps[i-1].Format("2006-01-02"))
		}
		step = gcd(step, d)
	}
	if step > 1 {
		return fmt.Errorf("%w: observations are spaced every %d months, not monthly", ErrAlignmentMismatch, step)
	}
	return nil
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
