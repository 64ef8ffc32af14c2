package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestMonthsBetween(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"same day next month", d(2024, 1, 10), d(2024, 2, 10), 1},
		{"one day short", d(2024, 1, 10), d(2024, 2, 9), 0},
		{"across year", d(2023, 11, 15), d(2024, 2, 15), 3},
		{"full year", d(2024, 1, 1), d(2025, 1, 1), 12},
		{"end of month", d(2024, 1, 31), d(2024, 2, 29), 0},
		{"reversed", d(2024, 3, 10), d(2024, 1, 10), -2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, MonthsBetween(tc.start, tc.end))
		})
	}
}

func TestShifted(t *testing.T) {
	at, label := Shifted(d(2024, 1, 10), d(2024, 2, 10))
	require.Equal(t, d(2024, 1, 11), at)
	require.Equal(t, "2024-01-11 - 2024-02-11", label)

	at, label = Shifted(d(2024, 12, 31), d(2025, 2, 28))
	require.Equal(t, d(2025, 1, 1), at)
	require.Equal(t, "2025-01-01 - 2025-03-01", label)
}

func TestValidate(t *testing.T) {
	months, err := Validate(d(2024, 1, 10), d(2024, 4, 10))
	require.NoError(t, err)
	require.Equal(t, 3, months)

	_, err = Validate(d(2024, 1, 10), d(2024, 1, 10))
	require.Error(t, err)
	_, err = Validate(d(2024, 1, 10), d(2024, 2, 1))
	require.Error(t, err)
	_, err = Validate(time.Time{}, d(2024, 2, 1))
	require.Error(t, err)
}

func TestAddMonthsAndDaysUntil(t *testing.T) {
	require.Equal(t, d(2024, 3, 11), AddMonths(d(2024, 2, 11), 1))
	require.Equal(t, d(2024, 3, 2), AddMonths(d(2024, 1, 31), 1))
	require.Equal(t, d(2024, 1, 11), AddDays(time.Date(2024, 1, 10, 17, 30, 0, 0, time.UTC), 1))

	now := time.Date(2024, 2, 1, 15, 0, 0, 0, time.UTC)
	require.Equal(t, 9, DaysUntil(d(2024, 2, 10), now))
	require.Equal(t, 0, DaysUntil(d(2024, 2, 1), now))
	require.Equal(t, -1, DaysUntil(d(2024, 1, 31), now))
}
