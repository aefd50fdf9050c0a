package shared

import "time"

// MonthStart truncates a date to the first day of its month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// AddMonths advances a date by whole months, clamping the day to the end of
// shorter months (Jan 31 + 1 month = Feb 28/29, not Mar 2).
func AddMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, months, 0)
	day := t.Day()
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}

// ReferenceMonth applies the credit card closing-day rule: a charge dated on
// or after the closing day bills on next month's invoice, otherwise on the
// current month's. The returned date is the first day of the billing month.
func ReferenceMonth(date time.Time, closingDay int) time.Time {
	if date.Day() >= closingDay {
		return MonthStart(AddMonths(date, 1))
	}
	return MonthStart(date)
}
