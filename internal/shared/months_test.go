package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClampsDay(t *testing.T) {
	require.Equal(t, date(2025, time.February, 28), AddMonths(date(2025, time.January, 31), 1))
	require.Equal(t, date(2024, time.February, 29), AddMonths(date(2024, time.January, 31), 1))
	require.Equal(t, date(2025, time.April, 15), AddMonths(date(2025, time.January, 15), 3))
	require.Equal(t, date(2026, time.January, 31), AddMonths(date(2025, time.December, 31), 1))
}

func TestReferenceMonth(t *testing.T) {
	// Charge on/after the closing day bills next month.
	require.Equal(t, date(2025, time.July, 1), ReferenceMonth(date(2025, time.June, 15), 10))
	// Charge before the closing day bills the current month.
	require.Equal(t, date(2025, time.June, 1), ReferenceMonth(date(2025, time.June, 5), 10))
	// Exactly on the closing day bills next month.
	require.Equal(t, date(2025, time.July, 1), ReferenceMonth(date(2025, time.June, 10), 10))
	// Year boundary.
	require.Equal(t, date(2026, time.January, 1), ReferenceMonth(date(2025, time.December, 20), 10))
}
