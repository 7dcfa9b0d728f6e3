// Package client provides the HTTP client used to talk to the span service.
//
// Built on go-resty/resty over a go-retryablehttp pooled transport:
//   - Connection pooling and keep-alive
//   - Context-based cancellation and deadlines
//   - Optional client-side rate limiting
//   - Bearer token authentication
//
// Requests are never retried. A failed query is reported to the caller as-is.
//
// Example Usage:
//
//	c := client.NewClient("http://localhost:6006")
//	c.SetBearerAuth(apiKey)
//	req, err := c.Request(ctx)
//	resp, err := req.SetBody(body).Post("v1/spans")
package client
