package utils

import (
	"fmt"
	"time"
)

// Slot inputs arrive as a calendar date plus two wall-clock times.
// Formats are strict: ISO calendar date and 24h HH:MM, both read as UTC.
const (
	DayLayout  = "2006-01-02"
	TimeLayout = "15:04"
)

// ParseDay parses a calendar date and returns it truncated to 00:00 UTC.
func ParseDay(date string) (time.Time, error) {
	day, err := time.ParseInLocation(DayLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return day, nil
}

// NormalizeSlotTimes combines a calendar date with two HH:MM strings and
// returns the day key (midnight UTC) plus the two absolute instants on
// that day. It has no side effects and does not validate ordering.
func NormalizeSlotTimes(date, startTime, endTime string) (day, start, end time.Time, err error) {
	day, err = ParseDay(date)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}

	start, err = combine(day, startTime)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}

	end, err = combine(day, endTime)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}

	return day, start, end, nil
}

func combine(day time.Time, clock string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, clock, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}
