/*
Package monitoring provides Prometheus metrics for the span client.

# Metrics

  - spanclient_requests_total{outcome}: span queries by outcome
  - spanclient_request_duration_seconds: round trip plus decode time
  - spanclient_response_size_bytes: raw response body size
  - spanclient_response_parts_total{kind}: multipart parts seen, json or other
  - spanclient_rows_decoded_total: rows in returned tables

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	timer := monitoring.NewTimer(metrics)
	// ... query and decode ...
	timer.Stop(monitoring.OutcomeSuccess)

A nil *Metrics is valid and records nothing.
*/
package monitoring
