package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the yyyy-MM-dd format used on the wire for calendar dates.
const DateLayout = "2006-01-02"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05-0700",
	DateLayout,
}

// ParseTimestamp accepts the timestamp shapes the backend emits, including
// ISO-8601 values without a zone, which are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time format: %s", value)
}

// ParseDate parses a yyyy-MM-dd date. Empty input yields nil.
func ParseDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	ts, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: want yyyy-MM-dd", value)
	}
	return &ts, nil
}

// FormatDate renders a date as yyyy-MM-dd, or "" for nil.
func FormatDate(ts *time.Time) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.Format(DateLayout)
}
