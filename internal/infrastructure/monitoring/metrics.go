package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for spanclient_requests_total.
const (
	OutcomeSuccess        = "success"
	OutcomeHTTPError      = "http_error"
	OutcomeTimeout        = "timeout"
	OutcomeTransportError = "transport_error"
	OutcomeMalformed      = "malformed"
	OutcomeDecodeError    = "decode_error"
)

// Part kinds for spanclient_response_parts_total.
const (
	PartJSON  = "json"
	PartOther = "other"
)

// Metrics holds the span client collectors.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	ResponseSize    prometheus.Histogram
	ResponseParts   *prometheus.CounterVec
	RowsDecoded     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spanclient_requests_total",
				Help: "Total number of span queries by outcome",
			},
			[]string{"outcome"},
		),
		RequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spanclient_request_duration_seconds",
				Help:    "Span query duration in seconds, including decoding",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		ResponseSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "spanclient_response_size_bytes",
				Help:    "Span query response body size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000, 100000000},
			},
		),
		ResponseParts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spanclient_response_parts_total",
				Help: "Total number of multipart response parts by kind",
			},
			[]string{"kind"},
		),
		RowsDecoded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "spanclient_rows_decoded_total",
				Help: "Total number of span rows returned to callers",
			},
		),
	}
}

// RecordRequest records a finished span query.
func (m *Metrics) RecordRequest(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(outcome).Inc()
	m.RequestDuration.Observe(duration.Seconds())
}

// RecordResponseSize records the size of a response body.
func (m *Metrics) RecordResponseSize(size int) {
	if m == nil {
		return
	}
	m.ResponseSize.Observe(float64(size))
}

// RecordPart counts one multipart part.
func (m *Metrics) RecordPart(kind string) {
	if m == nil {
		return
	}
	m.ResponseParts.WithLabelValues(kind).Inc()
}

// AddRows counts rows handed back to a caller.
func (m *Metrics) AddRows(n int) {
	if m == nil {
		return
	}
	m.RowsDecoded.Add(float64(n))
}

// Timer measures a span query.
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer starts a timer.
func NewTimer(metrics *Metrics) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
	}
}

// Stop records the elapsed time under outcome.
func (t *Timer) Stop(outcome string) {
	t.metrics.RecordRequest(outcome, time.Since(t.start))
}
