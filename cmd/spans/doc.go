// Package main is the entry point for the spans command line client.
//
// It queries a span service for span records and writes them as a table:
//
//	Span service → POST v1/spans → multipart table → csv/json/yaml/toml/describe
//
// Configuration:
//   - Environment variables (12-factor, see internal/infrastructure/config)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Latest 100 root spans of a project as CSV
//	spans fetch --project checkout --limit 100 --root-spans-only
//
//	# LLM spans of the last day, zstd-compressed JSON
//	spans fetch --where "span_kind == 'LLM'" --start 2024-05-01 -o llm.json.zst
//
//	# Numeric summary
//	spans fetch --select latency_ms --select llm.token_count.total --format describe
//
// Signals:
//   - SIGINT, SIGTERM: cancel the in-flight query
package main
