package utils

import "time"

// DateLayout is the calendar-day key used for logs and metrics.
const DateLayout = "2006-01-02"

// DateKey formats t as a UTC calendar day.
func DateKey(t time.Time) string { return t.UTC().Format(DateLayout) }

// DayStart truncates t to midnight UTC.
func DayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Yesterday returns the calendar day before t.
func Yesterday(t time.Time) string { return DateKey(DayStart(t).AddDate(0, 0, -1)) }

// StartOfWeek returns the most recent Sunday (inclusive) at midnight UTC.
func StartOfWeek(t time.Time) time.Time {
	d := DayStart(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}
