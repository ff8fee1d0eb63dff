package utils

import "time"

// DateLayout is the canonical YYYY-MM-DD layout used for trading-day keys.
const DateLayout = "2006-01-02"

// DayStart truncates t to midnight UTC.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysAgo returns midnight UTC of the day `days` before now.
func DaysAgo(days int) time.Time {
	return DayStart(time.Now().UTC().AddDate(0, 0, -days))
}
