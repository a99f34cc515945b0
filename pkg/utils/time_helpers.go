package utils

import (
	"fmt"
	"time"
)

const (
	DateLayout = "02.01.2006"
	TimeLayout = "15:04"
)

// NextMonday returns midnight of the coming Monday relative to now.
// A Monday rolls a full week forward: contacts parked "until Monday"
// on a Monday are meant for next week's queue, not today's.
func NextMonday(now time.Time) time.Time {
	weekday := (int(now.Weekday()) + 6) % 7 // Monday = 0 .. Sunday = 6
	d := now.AddDate(0, 0, 7-weekday)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// DateOnly truncates a timestamp to midnight in its location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CombineDateTime merges a "02.01.2006" date and a "15:04" time into one
// timestamp. Both parts must be present or both absent; a partial pair is
// an error so half-filled forms never silently schedule a call.
func CombineDateTime(dateStr, timeStr string, loc *time.Location) (*time.Time, error) {
	if dateStr == "" && timeStr == "" {
		return nil, nil
	}
	if dateStr == "" || timeStr == "" {
		return nil, fmt.Errorf("date and time must both be provided")
	}

	d, err := time.ParseInLocation(DateLayout, dateStr, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	t, err := time.ParseInLocation(TimeLayout, timeStr, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: %w", timeStr, err)
	}

	combined := time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	return &combined, nil
}
