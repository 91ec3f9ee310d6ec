package provider

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/naver-ai-trip/backend-trip-sub000/internal/ratelimit"
)

const maxGetAttempts = 2

// RawResponse is the untouched vendor reply handed to normalizers.
type RawResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTPClient is the shared outbound transport for vendor clients. It
// enforces the configured timeout, rate-limits per host, and retries
// idempotent GETs at most once on network failure or 5xx.
type HTTPClient struct {
	client  *http.Client
	limiter *ratelimit.Limiter
}

// NewHTTPClient creates a transport with the given per-request timeout.
// The limiter may be nil.
func NewHTTPClient(timeout time.Duration, limiter *ratelimit.Limiter) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// Do executes the request and returns the raw body + status code. Body
// reads are bounded by the client timeout.
func (c *HTTPClient) Do(req *http.Request) (*RawResponse, error) {
	attempts := 1
	if req.Method == http.MethodGet && req.Body == nil {
		attempts = maxGetAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if c.limiter != nil {
			c.limiter.Wait(req.URL.Host)
		}

		attemptReq := req
		if attempt > 0 {
			attemptReq = req.Clone(req.Context())
		}

		resp, err := c.client.Do(attemptReq)
		if err != nil {
			lastErr = fmt.Errorf("request %s %s: %w", req.Method, req.URL.Host, err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response from %s: %w", req.URL.Host, err)
			continue
		}

		if resp.StatusCode >= 500 && attempt < attempts-1 {
			lastErr = fmt.Errorf("vendor %s returned %d", req.URL.Host, resp.StatusCode)
			continue
		}

		return &RawResponse{StatusCode: resp.StatusCode, Body: body}, nil
	}

	return nil, lastErr
}
