// Package clock centralizes the UTC-microsecond timestamp representation
// used throughout the transition engine and the item sync core, plus the
// date-string fallback forms an ItemHash may carry instead.
package clock

import (
	"fmt"
	"time"
)

// dateLayouts are the date-parseable forms accepted for created_at/updated_at
// string fields on an incoming ItemHash, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
}

// NowMicros returns the current time as UTC microseconds since the epoch.
func NowMicros() int64 {
	return ToMicros(time.Now())
}

// ToMicros converts a time.Time to UTC microseconds since the epoch.
func ToMicros(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

// FromMicros converts UTC microseconds since the epoch back to a time.Time.
func FromMicros(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}

// ParseDate parses a client-submitted date string into UTC microseconds,
// trying each accepted layout in turn.
func ParseDate(s string) (int64, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return ToMicros(t), nil
		}
		lastErr = err
	}
	return 0, fmt.Errorf("unrecognized date format %q: %w", s, lastErr)
}
