// Package models defines client-side data models exchanged with the
// contest reminder backend.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// naiveLayout is the ISO form the backend emits for datetimes stored without
// a zone. Such values are UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a UTC instant decoded from either RFC 3339 or the zone-less
// ISO form.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		return nil
	}
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = v.UTC()
		return nil
	}
	v, err := time.ParseInLocation(naiveLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	t.Time = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// String formats the instant the way it is shown to users, or "TBD" when
// unknown.
func (t Timestamp) String() string {
	if t.IsZero() {
		return "TBD"
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
