package domain

import (
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04"

	Day = 24 * time.Hour
)

// DateOf truncates t to its calendar date at 00:00 UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp and returns the date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// NormalizeTimeOfDay accepts HH:MM or HH:MM:SS and returns HH:MM.
func NormalizeTimeOfDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(TimeOfDayLayout, s); err == nil {
		return t.Format(TimeOfDayLayout), nil
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return "", ErrValidationMeta("invalid time", map[string]string{"time": "must be HH:MM"})
	}
	return t.Format(TimeOfDayLayout), nil
}

// Within reports whether day lies in the closed interval [start, end].
func Within(day, start, end time.Time) bool {
	return !day.Before(start) && !day.After(end)
}

// RangesOverlap reports whether [aStart, aEnd] and [bStart, bEnd] intersect.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
