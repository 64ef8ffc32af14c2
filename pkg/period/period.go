// Package period holds the calendar arithmetic shared by subscriptions, packs and renewals.
package period

import (
	"fmt"
	"time"

	"github.com/fatflowers/clubdesk/pkg/types"
)

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func AddDays(t time.Time, days int) time.Time {
	return Day(t).AddDate(0, 0, days)
}

// AddMonths advances t by n calendar months, normalizing overflowing days the way time.AddDate does.
func AddMonths(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, n, 0)
}

// MonthsBetween counts whole calendar months from start to end.
// A month only counts once the end day-of-month reaches the start day-of-month.
func MonthsBetween(start, end time.Time) int {
	start, end = Day(start), Day(end)
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return months
}

// DaysUntil returns the number of whole days from now to end; negative once end is past.
func DaysUntil(end, now time.Time) int {
	return int(Day(end).Sub(Day(now)).Hours() / 24)
}

// Shifted returns the pack attachment date and membership period label of a subscription period.
// Both ends move forward one day: start 2024-01-10, end 2024-02-10 gives
// 2024-01-11 and "2024-01-11 - 2024-02-11".
func Shifted(start, end time.Time) (time.Time, string) {
	attach := AddDays(start, 1)
	return attach, fmt.Sprintf("%s - %s", attach.Format(types.DateLayout), AddDays(end, 1).Format(types.DateLayout))
}

// Validate checks that end is strictly after start and that the range covers at least one month.
func Validate(start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, fmt.Errorf("period start and end are required")
	}
	if !Day(end).After(Day(start)) {
		return 0, fmt.Errorf("period end %s must be after start %s", Day(end).Format(types.DateLayout), Day(start).Format(types.DateLayout))
	}
	months := MonthsBetween(start, end)
	if months < 1 {
		return months, fmt.Errorf("period %s - %s is shorter than one month", Day(start).Format(types.DateLayout), Day(end).Format(types.DateLayout))
	}
	return months, nil
}
