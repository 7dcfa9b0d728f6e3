package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// UserAgent is sent with every request.
const UserAgent = "spanclient/1.0"

// Client wraps resty with rate limiting
type Client struct {
	Resty   *resty.Client
	Limiter *rate.Limiter
	Mu      sync.RWMutex
}

// NewClient creates an HTTP client rooted at baseURL
func NewClient(baseURL string) *Client {
	// Pooled transport only, retries stay off
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil // Disable logging

	restyClient := resty.New()
	restyClient.
		SetBaseURL(baseURL).
		SetRetryCount(0).
		SetHeader("User-Agent", UserAgent).
		SetJSONMarshaler(sonic.ConfigStd.Marshal).
		SetJSONUnmarshaler(sonic.ConfigStd.Unmarshal)

	// Configure transport settings
	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	return &Client{
		Resty:   restyClient,
		Limiter: rate.NewLimiter(rate.Inf, 0), // Unlimited by default
	}
}

// BaseURL returns the URL requests are resolved against
func (c *Client) BaseURL() string {
	c.Mu.RLock()
	defer c.Mu.RUnlock()
	return c.Resty.BaseURL
}

// SetHeader adds default header
func (c *Client) SetHeader(key, value string) {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	c.Resty.SetHeader(key, value)
}

// RemoveHeader removes a default header
func (c *Client) RemoveHeader(key string) {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	c.Resty.Header.Del(key)
}

// GetHeaders returns copy of all headers
func (c *Client) GetHeaders() map[string]string {
	c.Mu.RLock()
	defer c.Mu.RUnlock()

	headers := make(map[string]string)
	for k, v := range c.Resty.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return headers
}

// SetRateLimit configures rate limiting (requests per second)
func (c *Client) SetRateLimit(rps float64) {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	if rps <= 0 {
		c.Limiter = rate.NewLimiter(rate.Inf, 0)
		return
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	c.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// SetBearerAuth configures bearer token authentication. An empty token
// removes it.
func (c *Client) SetBearerAuth(token string) {
	c.Mu.Lock()
	defer c.Mu.Unlock()
	c.Resty.SetAuthToken(token)
}

// Request creates new request after waiting for the rate limiter
func (c *Client) Request(ctx context.Context) (*resty.Request, error) {
	c.Mu.RLock()
	limiter := c.Limiter
	c.Mu.RUnlock()

	if err := limiter.Wait(ctx); err != nil {
		// Wait fails early when the next token lies past the deadline.
		if _, ok := ctx.Deadline(); ok && ctx.Err() == nil {
			return nil, fmt.Errorf("rate limit error: %v: %w", err, context.DeadlineExceeded)
		}
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	c.Mu.RLock()
	defer c.Mu.RUnlock()
	return c.Resty.R().SetContext(ctx), nil
}
