package utils

import (
	"time"
)

// DateLayout is the ISO calendar date layout used across the API.
const DateLayout = "2006-01-02"

// ClockIn returns a clock reporting time in loc. A nil loc reports UTC.
func ClockIn(loc *time.Location) func() time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Time { return time.Now().In(loc) }
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
