package calendar

import (
	"testing"
	"time"
)

func TestParse_Layouts(t *testing.T) {
	want := time.Date(2024, time.January, 28, 0, 0, 0, 0, time.UTC)

	tests := []string{
		"2024-01-28",
		" 2024-01-28 ",
		"2024-01-28T10:15:00Z",
		"2024-01-28T23:30:00-05:00",
		"2024-01-28T00:30:00+09:00",
		"2024-01-28T10:15:00",
		"2024-01-28T10:15:00.123456",
		"2024-01-28 10:15:00",
		"2024/01/28",
		"Sun, 28 Jan 2024 10:15:00 +0000",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			got, err := Parse(in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(want) {
				t.Errorf("Parse(%q) = %v, want %v", in, got, want)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "28/01/2024", "2024-13-01", "2024-02-30"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q): expected error", in)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	end := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		day  time.Time
		want int
	}{
		{time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, time.January, 28, 0, 0, 0, 0, time.UTC), 3},
		{time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), 21},
		{time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), 61},
		{time.Date(2024, time.January, 30, 23, 59, 0, 0, time.UTC), 1},
	}
	for _, tt := range tests {
		if got := DaysBetween(tt.day, end); got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", Format(tt.day), Format(end), got, tt.want)
		}
	}
}

func TestDay_KeepsWrittenDate(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	in := time.Date(2024, time.January, 28, 23, 30, 0, 0, loc)
	if got := Format(Day(in)); got != "2024-01-28" {
		t.Errorf("Day() = %s, want 2024-01-28", got)
	}
}
