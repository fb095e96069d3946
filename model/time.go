package model

import (
	"encoding"
	"fmt"
	"time"

	"github.com/justincampbell/timeago"
)

// RFC3339Milli is like time.RFC3339Nano, but with millisecond precision,
// and fractional seconds do not have trailing zeros removed.
const RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"

// Time is a timestamp from the API, always in UTC.
type Time struct {
	T time.Time
}

// ParseTime from the API. Timestamps usually have milliseconds, but any RFC 3339 time is accepted.
func ParseTime(v string) (Time, error) {
	for _, layout := range []string{RFC3339Milli, time.RFC3339Nano} {
		if t, err := time.Parse(layout, v); err == nil {
			return Time{T: t.UTC()}, nil
		}
	}
	return Time{}, fmt.Errorf("error parsing time %q", v)
}

// String satisfies [fmt.Stringer].
func (t Time) String() string {
	return t.T.UTC().Format(RFC3339Milli)
}

var _ fmt.Stringer = Time{}

// Pretty formats t for tables. Missing times are empty, and zero times are a dash.
func (t *Time) Pretty() string {
	if t == nil {
		return ""
	}
	if t.T.IsZero() {
		return "-"
	}
	return t.T.UTC().Format("2006-01-02 15:04 MST")
}

// Ago is the relative time since t, like "5 minutes ago".
func (t *Time) Ago() string {
	if t == nil || t.T.IsZero() {
		return "-"
	}
	return timeago.FromTime(t.T)
}

// MarshalText satisfies [encoding.TextMarshaler].
func (t Time) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

var _ encoding.TextMarshaler = Time{}

// UnmarshalText satisfies [encoding.TextUnmarshaler]. Empty strings leave t unchanged.
func (t *Time) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	parsed, err := ParseTime(string(data))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

var _ encoding.TextUnmarshaler = (*Time)(nil)
