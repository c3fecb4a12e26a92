package timeutil

import (
	"fmt"
	"time"
)

var defaultLocation = time.UTC

// ResolveLocation returns the configured location with UTC fallback.
func ResolveLocation(timezone string) (*time.Location, bool) {
	if timezone == "" {
		return defaultLocation, true
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return defaultLocation, true
	}
	return loc, false
}

// ParseDateTime parses a datetime in either RFC3339 (with explicit offset) or local
// layouts interpreted in the provided location. Timestamps with an explicit offset are
// re-anchored to loc so the whole pipeline speaks one civil timezone.
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("time value is required")
	}
	if loc == nil {
		loc = defaultLocation
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}

	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time: %s", value)
}

// FormatLong renders a time for user-facing confirmations, e.g.
// "Monday, June 30 at 3:00 PM IST".
func FormatLong(t time.Time) string {
	return t.Format("Monday, January 2 at 3:04 PM MST")
}

// FormatShort renders a time for suggestion lines, e.g. "Monday at 3:30 PM".
func FormatShort(t time.Time) string {
	return t.Format("Monday at 3:04 PM")
}
