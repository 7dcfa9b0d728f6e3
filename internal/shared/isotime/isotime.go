// Package isotime renders instants in the ISO-8601 shape used on the span
// API and in log lines: UTC, a numeric "+00:00" offset, and microseconds only
// when they are non-zero ("2024-05-01T10:00:00+00:00",
// "2024-05-01T10:00:00.250000+00:00").
package isotime

import "time"

const (
	layoutSeconds = "2006-01-02T15:04:05-07:00"
	layoutMicros  = "2006-01-02T15:04:05.000000-07:00"
)

// Format converts t to UTC and formats it. Precision below a microsecond is
// truncated.
func Format(t time.Time) string {
	t = t.UTC().Truncate(time.Microsecond)
	if t.Nanosecond() == 0 {
		return t.Format(layoutSeconds)
	}
	return t.Format(layoutMicros)
}

// FormatPtr formats t, or returns nil when t is nil.
func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Format(*t)
	return &s
}
