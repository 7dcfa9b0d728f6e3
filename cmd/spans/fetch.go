package main

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/spanclient/internal/client"
	"github.com/GriffinCanCode/spanclient/internal/infrastructure/config"
	"github.com/GriffinCanCode/spanclient/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/spanclient/internal/output"
	"github.com/GriffinCanCode/spanclient/internal/spans"
	"github.com/GriffinCanCode/spanclient/internal/table"
)

type serverOpts struct {
	url       string
	apiKey    string
	rateLimit float64
}

type queryOpts struct {
	selects       []string
	where         string
	index         string
	start         string
	end           string
	limit         int
	rootSpansOnly bool
	project       string
	timeout       float64
}

type outputOpts struct {
	format string
	path   string
}

type fetchOpts struct {
	server serverOpts
	query  queryOpts
	output outputOpts
}

func (opts *serverOpts) registerFlags(cmd *kingpin.CmdClause, cfg config.ServerConfig) {
	cmd.Flag("url", "base URL of the span service").Default(cfg.BaseURL).StringVar(&opts.url)
	cmd.Flag("api-key", "bearer token sent with the request").Default(cfg.APIKey).StringVar(&opts.apiKey)
	cmd.Flag("rate-limit", "maximum requests per second, 0 for unlimited").Default(fmt.Sprint(cfg.RateLimit)).Float64Var(&opts.rateLimit)
}

func (opts *queryOpts) registerFlags(cmd *kingpin.CmdClause, cfg config.QueryConfig) {
	cmd.Flag("select", "span attribute to return as a column (repeatable)").StringsVar(&opts.selects)
	cmd.Flag("where", "filter condition, e.g. \"span_kind == 'LLM'\"").StringVar(&opts.where)
	cmd.Flag("index", "span attribute used as the table index").StringVar(&opts.index)
	cmd.Flag("start", "only spans starting at or after this ISO-8601 time; local time when no offset is given").StringVar(&opts.start)
	cmd.Flag("end", "only spans starting before this ISO-8601 time; local time when no offset is given").StringVar(&opts.end)
	cmd.Flag("limit", "maximum number of spans").Default(fmt.Sprint(cfg.Limit)).IntVar(&opts.limit)
	cmd.Flag("root-spans-only", "only return spans without a parent").BoolVar(&opts.rootSpansOnly)
	cmd.Flag("project", "project to query instead of the server default").Default(cfg.Project).StringVar(&opts.project)
	cmd.Flag("timeout", "request timeout in seconds, 0 disables it").Default(fmt.Sprint(cfg.TimeoutSeconds)).Float64Var(&opts.timeout)
}

func (opts *outputOpts) registerFlags(cmd *kingpin.CmdClause) {
	formats := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		formats[i] = string(f)
	}
	cmd.Flag("format", "output format; inferred from --output when not set").Short('f').EnumVar(&opts.format, formats...)
	cmd.Flag("output", "output file, - for stdout; .gz and .zst compress").Short('o').Default(output.Stdout).StringVar(&opts.path)
}

func (opts *fetchOpts) registerFlags(cmd *kingpin.CmdClause, cfg *config.Config) {
	opts.server.registerFlags(cmd, cfg.Server)
	opts.query.registerFlags(cmd, cfg.Query)
	opts.output.registerFlags(cmd)
}

func registerFetchApp(app *kingpin.Application, cfg *config.Config) (*kingpin.CmdClause, func(context.Context, *zap.Logger, *prometheus.Registry) error) {
	cmd := app.Command("fetch", "fetch spans and write them as a table")

	var opts fetchOpts
	opts.registerFlags(cmd, cfg)

	return cmd, func(ctx context.Context, log *zap.Logger, reg *prometheus.Registry) error {
		return runFetch(ctx, log, reg, opts)
	}
}

func (opts queryOpts) queryOptions() ([]spans.QueryOption, error) {
	if opts.timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative")
	}

	q := spans.NewSpanQuery().Select(opts.selects...)
	if opts.where != "" {
		q = q.Where(opts.where)
	}
	if opts.index != "" {
		q = q.Index(opts.index)
	}

	qopts := []spans.QueryOption{
		spans.WithQuery(q),
		spans.WithLimit(opts.limit),
		spans.WithTimeout(time.Duration(opts.timeout * float64(time.Second))),
	}
	if opts.start != "" {
		t, err := spans.ParseTime(opts.start, nil)
		if err != nil {
			return nil, fmt.Errorf("--start: %w", err)
		}
		qopts = append(qopts, spans.WithStartTime(t))
	}
	if opts.end != "" {
		t, err := spans.ParseTime(opts.end, nil)
		if err != nil {
			return nil, fmt.Errorf("--end: %w", err)
		}
		qopts = append(qopts, spans.WithEndTime(t))
	}
	if opts.rootSpansOnly {
		qopts = append(qopts, spans.WithRootSpansOnly(true))
	}
	if opts.project != "" {
		qopts = append(qopts, spans.WithProjectName(opts.project))
	}
	return qopts, nil
}

func runFetch(ctx context.Context, log *zap.Logger, reg *prometheus.Registry, opts fetchOpts) error {
	qopts, err := opts.query.queryOptions()
	if err != nil {
		return err
	}
	format := output.FormatFromPath(opts.output.path, output.CSV)
	if opts.output.format != "" {
		if format, err = output.ParseFormat(opts.output.format); err != nil {
			return err
		}
	}

	c := client.NewClient(opts.server.url)
	c.SetBearerAuth(opts.server.apiKey)
	c.SetRateLimit(opts.server.rateLimit)

	s := spans.New(c, log.Named("client"), spans.WithMetrics(monitoring.NewMetrics(reg)))

	log.Info("Fetching spans",
		zap.String("url", opts.server.url),
		zap.String("project", opts.query.project),
		zap.Int("limit", opts.query.limit))

	tbl, err := awaitTable(ctx, s.GetSpansTableAsync(ctx, qopts...))
	if err != nil {
		return err
	}
	defer tbl.Release()

	w, err := output.Create(opts.output.path)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if err := output.Write(w, tbl, format); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", format, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	log.Info("Wrote spans",
		zap.Int("rows", tbl.NumRows()),
		zap.String("format", string(format)),
		zap.String("output", opts.output.path))
	logMetrics(log, reg)
	return nil
}

// awaitTable waits for the single result on results. When ctx ends first, a
// table that still arrives is released in the background.
func awaitTable(ctx context.Context, results <-chan spans.Result) (table.Table, error) {
	select {
	case res := <-results:
		return res.Table, res.Err
	case <-ctx.Done():
		go func() {
			for res := range results {
				if res.Table != nil {
					res.Table.Release()
				}
			}
		}()
		return nil, ctx.Err()
	}
}

// logMetrics writes the collected counter values at debug level.
func logMetrics(log *zap.Logger, reg prometheus.Gatherer) {
	families, err := reg.Gather()
	if err != nil {
		log.Debug("Gathering metrics failed", zap.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			fields := []zap.Field{
				zap.String("metric", mf.GetName()),
				zap.Float64("value", m.GetCounter().GetValue()),
			}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			log.Debug("Metric", fields...)
		}
	}
}
