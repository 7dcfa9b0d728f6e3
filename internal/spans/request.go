package spans

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/spanclient/internal/shared/isotime"
)

// RequestBody is the JSON body of POST v1/spans.
type RequestBody struct {
	Queries       []map[string]interface{} `json:"queries"`
	StartTime     *string                  `json:"start_time"`
	EndTime       *string                  `json:"end_time"`
	Limit         int                      `json:"limit"`
	RootSpansOnly *bool                    `json:"root_spans_only"`
}

// BuildRequestBody assembles the request body for a single query. A nil q
// sends the empty query.
func BuildRequestBody(q Query, start, end *time.Time, limit int, rootSpansOnly *bool) RequestBody {
	if q == nil {
		q = SpanQuery{}
	}
	return RequestBody{
		Queries:       []map[string]interface{}{q.ToMap()},
		StartTime:     isotime.FormatPtr(NormalizeTime(start)),
		EndTime:       isotime.FormatPtr(NormalizeTime(end)),
		Limit:         limit,
		RootSpansOnly: rootSpansOnly,
	}
}

// NormalizeTime returns t converted to UTC, or nil.
func NormalizeTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTime parses an ISO-8601 instant. Input without a UTC offset is read in
// loc, or in the local time zone when loc is nil.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: want ISO-8601 such as 2024-05-01T10:00:00Z", s)
}
