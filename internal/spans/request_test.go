package spans

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestBodyNaiveTimes(t *testing.T) {
	start, err := ParseTime("2024-05-01T10:00:00", nil)
	require.NoError(t, err)
	end, err := ParseTime("2024-05-01T11:30:00.5", nil)
	require.NoError(t, err)

	body := BuildRequestBody(nil, &start, &end, 10, nil)

	wantStart := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local).UTC().Format("2006-01-02T15:04:05") + "+00:00"
	wantEnd := time.Date(2024, 5, 1, 11, 30, 0, 500000000, time.Local).UTC().Format("2006-01-02T15:04:05.000000") + "+00:00"
	require.NotNil(t, body.StartTime)
	require.NotNil(t, body.EndTime)
	assert.Equal(t, wantStart, *body.StartTime)
	assert.Equal(t, wantEnd, *body.EndTime)
}

func TestBuildRequestBodyZonedTimes(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, loc)
	end := time.Date(2024, 5, 1, 12, 0, 0, 123456789, loc)

	body := BuildRequestBody(nil, &start, &end, 10, nil)

	assert.Equal(t, "2024-05-01T08:00:00+00:00", *body.StartTime)
	assert.Equal(t, "2024-05-01T10:00:00.123456+00:00", *body.EndTime)
}

func TestBuildRequestBodyNulls(t *testing.T) {
	body := BuildRequestBody(nil, nil, nil, DefaultLimit, nil)

	raw, err := sonic.ConfigStd.Marshal(body)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"queries":[{}],"start_time":null,"end_time":null,"limit":1000,"root_spans_only":null}`,
		string(raw))
}

func TestBuildRequestBodySingleQuery(t *testing.T) {
	root := true
	q := NewSpanQuery().Select("name").Where("span_kind == 'LLM'")

	body := BuildRequestBody(q, nil, nil, 5, &root)

	raw, err := sonic.ConfigStd.Marshal(body)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"queries":[{"select":{"name":{"key":"name"}},"filter":{"condition":"span_kind == 'LLM'"}}],`+
			`"start_time":null,"end_time":null,"limit":5,"root_spans_only":true}`,
		string(raw))
}

func TestNormalizeTime(t *testing.T) {
	assert.Nil(t, NormalizeTime(nil))

	in := time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("EST", -5*60*60))
	out := NormalizeTime(&in)

	require.NotNil(t, out)
	assert.Equal(t, time.UTC, out.Location())
	assert.True(t, out.Equal(in))
}

func TestParseTime(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00+02:00", time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, loc)},
		{"2024-05-01 10:00:00.25", time.Date(2024, 5, 1, 10, 0, 0, 250000000, loc)},
		{"2024-05-01T10:00", time.Date(2024, 5, 1, 10, 0, 0, 0, loc)},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, loc)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in, loc)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestParseTimeInvalid(t *testing.T) {
	_, err := ParseTime("yesterday", nil)
	assert.Error(t, err)
}
