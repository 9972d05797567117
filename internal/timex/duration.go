// Package timex provides a JSON-friendly time.Duration wrapper so config
// files can express durations as strings ("30s", "2m") instead of raw
// nanosecond integers.
package timex

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration wraps time.Duration with JSON (un)marshaling that accepts either
// a duration string ("1m30s") or a plain integer number of nanoseconds.
type Duration struct {
	time.Duration
}

// MarshalJSON renders the duration as its string form.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

// UnmarshalJSON accepts a duration string or a bare number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		d.Duration = parsed
	case float64:
		d.Duration = time.Duration(v)
	default:
		return fmt.Errorf("unsupported duration value: %v", raw)
	}
	return nil
}
