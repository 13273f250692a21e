package generic

import (
	"time"
)

// =============================================================================
// DAY BOUNDARIES - Every boundary in this system is UTC
// =============================================================================

// DayLayout is the wire format for calendar days.
const DayLayout = "2006-01-02"

// StartOfDay returns 00:00:00.000 UTC of the day containing t.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns 23:59:59.999 UTC of the day containing t.
// Millisecond precision matches what the store persists.
func EndOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// Date builds a UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// DayKey is the UTC calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string { return t.UTC().Format(DayLayout) }

// ParseDay parses YYYY-MM-DD as a UTC midnight.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, s, time.UTC)
}

// ParseTimestamp accepts RFC3339 timestamps or bare days.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	return ParseDay(s)
}

// AddDays moves t by n calendar days.
func AddDays(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) }

// DaysBetween counts whole UTC days from 'from' to 'to'.
func DaysBetween(from, to time.Time) int {
	return int(StartOfDay(to).Sub(StartOfDay(from)).Hours() / 24)
}

// CalendarDaysSpanned counts the calendar days touched by [start, end], inclusive.
// Returns 0 when end is before start.
func CalendarDaysSpanned(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return DaysBetween(start, end) + 1
}

// =============================================================================
// ISO WEEKS
// =============================================================================

// ISOWeekday returns Monday=1 .. Sunday=7.
func ISOWeekday(t time.Time) int {
	wd := int(t.UTC().Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// StartOfISOWeek returns the Monday 00:00 UTC of the week containing t.
func StartOfISOWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return AddDays(day, -(ISOWeekday(day) - 1))
}

// ISOWeek returns the ISO 8601 week number of t (UTC).
func ISOWeek(t time.Time) int {
	_, w := t.UTC().ISOWeek()
	return w
}

// =============================================================================
// MONTHS
// =============================================================================

func StartOfMonth(year int, month time.Month) time.Time { return Date(year, month, 1) }

func EndOfMonth(year int, month time.Month) time.Time {
	return EndOfDay(Date(year, month+1, 1).AddDate(0, 0, -1))
}

// AddMonthsClamped adds n months, clamping to the last day of the target month
// instead of overflowing (Jan 31 + 1 month = Feb 28/29).
func AddMonthsClamped(t time.Time, n int) time.Time {
	u := StartOfDay(t)
	first := Date(u.Year(), u.Month(), 1).AddDate(0, n, 0)
	last := Date(first.Year(), first.Month()+1, 1).AddDate(0, 0, -1).Day()
	day := u.Day()
	if day > last {
		day = last
	}
	return Date(first.Year(), first.Month(), day)
}
