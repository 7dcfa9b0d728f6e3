// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: one JSON object per line, rendered by JSONFormatter
//   - Development: colored console output for humans
//
// Production lines carry fixed keys for log pipelines that expect either a
// "level" or a "severity" attribute:
//
//	{"level":"ERROR","severity":"ERROR","message":"boom",
//	 "timestamp":"2024-05-01T10:00:00.250000+00:00","logger":"spans",
//	 "exc_info":"dial tcp: connection refused","module":"spans",
//	 "function":"github.com/GriffinCanCode/spanclient/internal/spans.(*Spans).fetch","line":88}
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Fetching spans", zap.String("project", "default"))
//	logger.Error("Span query failed", zap.Error(err))
//
// AccessLog wires the same logger into a gin engine so a web server's
// request log shares the format.
package logging
