// Package timeutil provides time parsing and formatting utilities.
package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var errInvalidTimestamp = errors.New("invalid timestamp")

// ErrInvalidTimestamp is returned when a timestamp string cannot be parsed.
var ErrInvalidTimestamp = errInvalidTimestamp

// FormatDuration formats a duration into a human-readable string.
// It rounds to the nearest second and displays in "Xm Ys" or "Ys" format.
//
// Examples:
//   - 1m 23s for durations >= 1 minute
//   - 45s for durations < 1 minute
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := d / time.Minute
	seconds := (d % time.Minute) / time.Second

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// ParseTimestamp accepts RFC 3339 timestamps or plain dates (midnight UTC).
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q (want RFC 3339 or YYYY-MM-DD)", errInvalidTimestamp, s)
}

// FormatTimestamp renders t in UTC as RFC 3339.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
