package util

import (
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// AlignFromTo rounds the time range to boundaries for the horizon.
// The start is truncated down, the end rounded up, so no bucket is clipped.
func AlignFromTo(from, to time.Time, horizon string) (time.Time, time.Time) {
	var d time.Duration
	switch horizon {
	case "4h":
		d = 4 * time.Hour
	case "1d":
		d = 24 * time.Hour
	default: // 1h
		d = time.Hour
	}
	from = from.Truncate(d)
	if aligned := to.Truncate(d); aligned.Before(to) {
		to = aligned.Add(d)
	}
	return from, to
}
