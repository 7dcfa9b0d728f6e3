package spans

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

const maxErrorBody = 512

// HTTPStatusError is returned for a non-2xx response that is not multipart.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	body := e.Body
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	return fmt.Sprintf("span query failed: HTTP %d: %s", e.StatusCode, body)
}

// MalformedResponseError reports a multipart response that breaks the
// envelope contract.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed span response: " + e.Reason
}

// TimeoutError is returned when the request does not complete in time.
// Timeout is zero when no timeout was configured.
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		secs := strconv.FormatFloat(e.Timeout.Seconds(), 'f', -1, 64)
		return "The request timed out after " + secs + " seconds. The timeout can be increased " +
			"by passing a larger value to the timeout option " +
			"and can be disabled altogether by passing zero."
	}
	return "The request timed out. The timeout can be adjusted by " +
		"passing a number of seconds to the timeout option " +
		"and can be disabled altogether by passing zero."
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// translateTimeout wraps transport timeouts in a TimeoutError and returns
// any other error unchanged.
func translateTimeout(err error, timeout time.Duration) error {
	if err == nil || !isTimeout(err) {
		return err
	}
	return &TimeoutError{Timeout: timeout, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
