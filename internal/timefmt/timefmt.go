// Package timefmt handles the compact yyyymmddhhmmss timestamp format used
// on every time-window query parameter.
package timefmt

import "time"

// Layout is the wire format for all from/to query parameters.
const Layout = "20060102150405"

// Parse converts a yyyymmddhhmmss string. Empty or malformed values return
// the supplied fallback instead of an error: window parameters degrade to
// their documented defaults rather than failing the request.
func Parse(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return fallback
	}
	return t
}

// Format renders t in the wire format.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// StartOfDay returns midnight of t's day, the default lower bound for
// weighing queries.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfMonth returns the first instant of t's month, the default lower
// bound for billing queries.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
