package item

import (
	"strings"
	"time"
)

// WireLayout is the end-date format exchanged with the backend: UTC with
// three-digit millisecond precision and a literal Z designator. The backend
// compares end dates lexicographically in places, so the precision and the
// designator are load-bearing.
const WireLayout = "2006-01-02T15:04:05.000Z"

// WireTime is a time.Time that marshals to the backend's end-date format.
// A user-supplied local time is converted to UTC on the way out regardless
// of the process time zone.
type WireTime struct {
	t time.Time
}

// NewWireTime normalizes a local time to a UTC wire time
func NewWireTime(t time.Time) WireTime {
	return WireTime{t: t.UTC()}
}

// Time returns the underlying instant
func (w WireTime) Time() time.Time {
	return w.t
}

// String returns the wire representation
func (w WireTime) String() string {
	return w.t.UTC().Format(WireLayout)
}

// MarshalJSON implements json.Marshaler
func (w WireTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + w.t.UTC().Format(WireLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler. Parsing is lenient: a value
// that matches neither the wire layout nor RFC3339 decodes to the zero
// time, which the temporal filter treats as open-ended rather than
// excluding the item.
func (w *WireTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		w.t = time.Time{}
		return nil
	}

	for _, layout := range []string{WireLayout, time.RFC3339Nano, time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			w.t = parsed.UTC()
			return nil
		}
	}

	w.t = time.Time{}
	return nil
}
