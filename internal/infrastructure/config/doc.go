// Package config provides 12-factor configuration management for the span client.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables.
//
// Configuration Sections:
//   - Server: span service base URL, API key, client-side rate limit
//   - Query: request timeout, row limit, project name
//   - Logging: log level, output format and destination
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Querying %s (timeout %s)\n", cfg.Server.BaseURL, cfg.Query.Timeout())
//
// Environment Variables:
//   - SPANS_BASE_URL, SPANS_API_KEY, SPANS_RATE_LIMIT
//   - SPANS_TIMEOUT, SPANS_LIMIT, SPANS_PROJECT
//   - LOG_LEVEL, LOG_DEV, LOG_OUTPUT
package config
