package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestNewClient(t *testing.T) {
	c := NewClient("http://localhost:6006")

	require.NotNil(t, c.Resty)
	assert.Equal(t, "http://localhost:6006", c.BaseURL())
	assert.Equal(t, rate.Inf, c.Limiter.Limit())
	assert.Equal(t, 0, c.Resty.RetryCount)
	assert.Equal(t, UserAgent, c.GetHeaders()["User-Agent"])
}

func TestHeaders(t *testing.T) {
	c := NewClient("http://localhost:6006")

	c.SetHeader("X-Custom", "value")
	assert.Equal(t, "value", c.GetHeaders()["X-Custom"])

	c.RemoveHeader("X-Custom")
	assert.NotContains(t, c.GetHeaders(), "X-Custom")
}

func TestRequestSendsJSONAndAuth(t *testing.T) {
	var gotAuth, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetBearerAuth("secret")

	req, err := c.Request(context.Background())
	require.NoError(t, err)

	resp, err := req.SetBody(map[string]interface{}{"limit": 10}).Post("v1/spans")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Contains(t, gotType, "application/json")
	assert.JSONEq(t, `{"limit":10}`, gotBody)
}

func TestNoRetries(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	req, err := c.Request(context.Background())
	require.NoError(t, err)

	resp, err := req.Post("v1/spans")
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL)
	req, err := c.Request(ctx)
	require.NoError(t, err)

	_, err = req.Post("v1/spans")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSetRateLimit(t *testing.T) {
	c := NewClient("http://localhost:6006")

	c.SetRateLimit(0.5)
	assert.Equal(t, rate.Limit(0.5), c.Limiter.Limit())
	assert.Equal(t, 1, c.Limiter.Burst())

	c.SetRateLimit(20)
	assert.Equal(t, 20, c.Limiter.Burst())

	c.SetRateLimit(0)
	assert.Equal(t, rate.Inf, c.Limiter.Limit())
}

func TestRequestRateLimited(t *testing.T) {
	c := NewClient("http://localhost:6006")
	c.SetRateLimit(0.001)

	// First token is available immediately
	_, err := c.Request(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = c.Request(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit error")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequestRateLimitedCancelled(t *testing.T) {
	c := NewClient("http://localhost:6006")
	c.SetRateLimit(0.001)

	_, err := c.Request(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Request(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
}
