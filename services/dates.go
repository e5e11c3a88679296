package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// fallbackLayouts are tried in order after the generic parser gives up.
var fallbackLayouts = []string{
	"01/02/2006", "02/01/2006", "2006-01-02",
	"01/02/06", "02/01/06", "2006/01/02",
	"01-02-2006", "02-01-2006", "2006.01.02",
	"01.02.2006", "02.01.2006", "Jan 2, 2006",
	"January 2, 2006", "2 Jan 2006", "2 January 2006",
}

// ParseDate parses a cell value as a date in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrUnparseableDate
	}
	if t, err := dateparse.ParseIn(value, time.UTC); err == nil {
		return t, nil
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, value)
}

// IsDate reports whether ParseDate accepts value.
func IsDate(value string) bool {
	_, err := ParseDate(value)
	return err == nil
}

// DateRange is an inclusive range; zero bounds are open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange validates YYYY-MM-DD bounds. Empty strings leave the bound
// open. The end bound covers the whole end day.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if start = strings.TrimSpace(start); start != "" {
		t, err := time.ParseInLocation("2006-01-02", start, time.UTC)
		if err != nil {
			return r, fmt.Errorf("%w: start date %q", ErrInvalidDate, start)
		}
		r.Start = t
	}
	if end = strings.TrimSpace(end); end != "" {
		t, err := time.ParseInLocation("2006-01-02", end, time.UTC)
		if err != nil {
			return r, fmt.Errorf("%w: end date %q", ErrInvalidDate, end)
		}
		r.End = t.Add(24*time.Hour - time.Nanosecond)
	}
	return r, nil
}

// IsOpen reports whether neither bound is set.
func (r DateRange) IsOpen() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t lies within the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}
