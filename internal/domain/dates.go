package domain

import "time"

// DayFormat is the wire and storage format for day-resolution dates.
const DayFormat = "2006-01-02"

// Day truncates t to calendar-day resolution in UTC. All date comparisons
// and storage keys go through this so time-of-day never leaks into lookups.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// DayString renders t as a day-resolution date string.
func DayString(t time.Time) string {
	return Day(t).Format(DayFormat)
}

// ParseDay parses a day-resolution date string.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}
