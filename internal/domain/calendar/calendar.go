// Package calendar works with whole calendar days. Content dates and search windows
// are compared at day granularity in UTC; the time of day never matters.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical wire format of a calendar day.
const DateLayout = "2006-01-02"

// layouts accepted for content dates, tried in order. Timestamps keep the day as written,
// so "2024-01-28T23:30:00-05:00" is 2024-01-28.
var layouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999Z07:00",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
}

// Day truncates t to midnight UTC of the calendar day t falls on in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse parses a calendar day from a date or timestamp string.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

// DaysBetween returns the whole number of days from a to b (b - a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Format renders a day in DateLayout.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}
