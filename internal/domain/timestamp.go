package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// timestampLayouts are tried in order when decoding created_at/updated_at
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
}

// Timestamp is a server time. Values in a layout the client does not know
// are kept verbatim in Raw instead of failing the whole payload.
type Timestamp struct {
	time.Time
	Raw string
}

// NewTimestamp wraps t
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp reads s in any known layout, falling back to Raw
func ParseTimestamp(s string) Timestamp {
	if s == "" {
		return Timestamp{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}
		}
	}
	return Timestamp{Raw: s}
}

// String returns the raw value for unparsed timestamps
func (t Timestamp) String() string {
	if t.Time.IsZero() {
		return t.Raw
	}
	return t.Time.Format(time.RFC3339)
}

// MarshalJSON writes the time in RFC 3339, the raw string, or null
func (t Timestamp) MarshalJSON() ([]byte, error) {
	switch {
	case !t.Time.IsZero():
		return t.Time.MarshalJSON()
	case t.Raw != "":
		return json.Marshal(t.Raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts strings in any known layout, null, or an empty string
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseTimestamp(s)
	return nil
}

// MarshalYAML writes the same text as String
func (t Timestamp) MarshalYAML() (any, error) {
	return t.String(), nil
}
