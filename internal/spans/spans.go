package spans

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/spanclient/internal/client"
	"github.com/GriffinCanCode/spanclient/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/spanclient/internal/shared/id"
	"github.com/GriffinCanCode/spanclient/internal/table"
)

const (
	// DefaultLimit is the row limit when WithLimit is not given.
	DefaultLimit = 1000
	// DefaultTimeout bounds a request when WithTimeout is not given.
	DefaultTimeout = 5 * time.Second

	spansPath = "v1/spans"
)

// Spans retrieves span tables from a span service.
type Spans struct {
	client  *client.Client
	logger  *zap.Logger
	metrics *monitoring.Metrics
	tables  table.Builder
}

// Option configures a Spans.
type Option func(*Spans)

// WithMetrics records request metrics into m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Spans) { s.metrics = m }
}

// WithTableBuilder builds result tables with b instead of the default
// registered backend.
func WithTableBuilder(b table.Builder) Option {
	return func(s *Spans) { s.tables = b }
}

// New creates a Spans on top of c.
func New(c *client.Client, logger *zap.Logger, opts ...Option) *Spans {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Spans{client: c, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryOption configures one span query.
type QueryOption func(*queryOptions)

type queryOptions struct {
	query         Query
	start         *time.Time
	end           *time.Time
	limit         int
	rootSpansOnly *bool
	project       string
	timeout       time.Duration
}

// WithQuery sets the query; by default every span is selected.
func WithQuery(q Query) QueryOption {
	return func(o *queryOptions) { o.query = q }
}

// WithStartTime only returns spans starting at or after t.
func WithStartTime(t time.Time) QueryOption {
	return func(o *queryOptions) { o.start = &t }
}

// WithEndTime only returns spans starting before t.
func WithEndTime(t time.Time) QueryOption {
	return func(o *queryOptions) { o.end = &t }
}

// WithLimit caps the number of returned spans.
func WithLimit(n int) QueryOption {
	return func(o *queryOptions) { o.limit = n }
}

// WithRootSpansOnly restricts the result to spans without a parent, or to
// spans with one when only is false.
func WithRootSpansOnly(only bool) QueryOption {
	return func(o *queryOptions) { o.rootSpansOnly = &only }
}

// WithProjectName queries the named project instead of the server default.
func WithProjectName(name string) QueryOption {
	return func(o *queryOptions) { o.project = name }
}

// WithTimeout bounds the request; zero disables the timeout.
func WithTimeout(d time.Duration) QueryOption {
	return func(o *queryOptions) { o.timeout = d }
}

// WithoutTimeout disables the request timeout.
func WithoutTimeout() QueryOption {
	return WithTimeout(0)
}

// Result is the outcome of an asynchronous query.
type Result struct {
	Table table.Table
	Err   error
}

// GetSpansTable queries spans and returns them as a table. The caller owns
// the table and must Release it.
func (s *Spans) GetSpansTable(ctx context.Context, opts ...QueryOption) (table.Table, error) {
	o := queryOptions{limit: DefaultLimit, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	tables, err := s.builder()
	if err != nil {
		return nil, err
	}

	timer := monitoring.NewTimer(s.metrics)
	reqID := id.NewRequestID()
	logger := s.logger.With(zap.String("request_id", reqID.String()))

	resp, err := s.fetch(ctx, reqID, o)
	if err != nil {
		var te *TimeoutError
		if errors.As(err, &te) {
			timer.Stop(monitoring.OutcomeTimeout)
		} else {
			timer.Stop(monitoring.OutcomeTransportError)
		}
		return nil, err
	}
	s.metrics.RecordResponseSize(len(resp.Body))

	tbl, err := decodeResponse(resp, tables, logger, s.metrics)
	if err != nil {
		timer.Stop(outcomeOf(err))
		return nil, err
	}
	timer.Stop(monitoring.OutcomeSuccess)

	logger.Debug("Fetched spans",
		zap.Int("rows", tbl.NumRows()),
		zap.Int("columns", len(tbl.Columns())))
	return tbl, nil
}

// GetSpansTableAsync runs GetSpansTable in a goroutine. The channel receives
// exactly one Result and is then closed.
func (s *Spans) GetSpansTableAsync(ctx context.Context, opts ...QueryOption) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		tbl, err := s.GetSpansTable(ctx, opts...)
		ch <- Result{Table: tbl, Err: err}
	}()
	return ch
}

func (s *Spans) builder() (table.Builder, error) {
	if s.tables != nil {
		return s.tables, nil
	}
	return table.Default()
}

func (s *Spans) fetch(ctx context.Context, reqID id.RequestID, o queryOptions) (Response, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	req, err := s.client.Request(ctx)
	if err != nil {
		return Response{}, translateTimeout(err, o.timeout)
	}

	req.SetHeader("Accept", "application/json").
		SetHeader("X-Request-Id", reqID.String()).
		SetBody(BuildRequestBody(o.query, o.start, o.end, o.limit, o.rootSpansOnly))
	if o.project != "" {
		req.SetQueryParam("project_name", o.project)
	}

	resp, err := req.Post(spansPath)
	if err != nil {
		return Response{}, translateTimeout(err, o.timeout)
	}

	return Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       string(resp.Body()),
	}, nil
}

func outcomeOf(err error) string {
	var statusErr *HTTPStatusError
	var malformedErr *MalformedResponseError
	switch {
	case errors.As(err, &statusErr):
		return monitoring.OutcomeHTTPError
	case errors.As(err, &malformedErr):
		return monitoring.OutcomeMalformed
	default:
		return monitoring.OutcomeDecodeError
	}
}
