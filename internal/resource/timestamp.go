package resource

import (
	"bytes"
	"encoding/json"
	"time"
)

// Timestamp is a point in time as the backend serializes it. The backend is
// inconsistent: ISO strings with or without a zone, epoch milliseconds, and
// [year, month, day, hour, min, sec, nanos] arrays all occur. Values that
// cannot be read decode to the zero Timestamp instead of failing the document.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		for _, layout := range timestampLayouts {
			if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				t.Time = parsed
				return nil
			}
		}
	case '[':
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil || len(parts) < 3 {
			return nil
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		t.Time = time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.Local)
	default:
		var ms int64
		if err := json.Unmarshal(b, &ms); err == nil {
			t.Time = time.UnixMilli(ms)
		}
	}
	return nil
}

// MarshalJSON writes RFC 3339, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// MarshalYAML writes RFC 3339, or null for the zero value.
func (t Timestamp) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Format(time.RFC3339), nil
}

// Age returns how long ago the timestamp was, or zero when unknown.
func (t Timestamp) Age(now time.Time) time.Duration {
	if t.IsZero() || now.Before(t.Time) {
		return 0
	}
	return now.Sub(t.Time)
}
