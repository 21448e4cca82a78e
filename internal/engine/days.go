package engine

import (
	"fmt"
	"time"
)

// DayLayout is the layout of day keys, matching the completion calendar.
const DayLayout = "2006-01-02"

// DayKey formats t as a calendar day in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// ParseDay parses a day key produced by DayKey.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return t, nil
}

// PreviousDay returns the day key before day. Invalid input yields "".
func PreviousDay(day string) string {
	t, err := ParseDay(day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DayLayout)
}

// MaxCalendarDays bounds the span DaysBetween accepts.
const MaxCalendarDays = 366

// DaysBetween lists the day keys from..to inclusive, oldest first. Spans
// longer than MaxCalendarDays fail with ErrRangeTooLarge.
func DaysBetween(from, to string) ([]string, error) {
	start, err := ParseDay(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseDay(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s is before start %s", to, from)
	}
	// Sub saturates, so far-apart years still compare as too large.
	span := int(end.Sub(start)/(24*time.Hour)) + 1
	if span > MaxCalendarDays {
		return nil, fmt.Errorf("%w: %s..%s spans %d days, max %d", ErrRangeTooLarge, from, to, span, MaxCalendarDays)
	}
	out := make([]string, 0, span)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DayLayout))
	}
	return out, nil
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
