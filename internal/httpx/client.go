// Package httpx provides the shared upstream HTTP client: browser-like
// request identity, pooled keep-alive connections, transparent gzip, and
// process-wide rate limiting toward the catalog origin.
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/time/rate"
)

// ErrNotFound reports an upstream 404. Callers normalize it to an empty
// result rather than an error.
var ErrNotFound = errors.New("httpx: upstream resource not found")

// StatusError reports a non-2xx, non-404 upstream response.
//
// It is a transient-failure signal: callers degrade to an empty result and
// never retry automatically.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpx: unexpected status %d for %s", e.Code, e.URL)
}

// Config holds client construction parameters.
type Config struct {
	// UserAgent and Referer are applied to every request.
	UserAgent string
	Referer   string

	// MaxConnsPerHost bounds the keep-alive pool per origin. Defaults to 50.
	MaxConnsPerHost int

	// RateLimit throttles outgoing requests. Zero disables limiting.
	RateLimit rate.Limit
	Burst     int

	// Base is the underlying client. When nil a pooled keep-alive client
	// with transparent gzip is constructed.
	Base *http.Client
}

// Client issues upstream requests with consistent identity and throttling.
type Client struct {
	hc        *http.Client
	userAgent string
	referer   string
	limiter   *rate.Limiter
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	hc := cfg.Base
	if hc == nil {
		maxConns := cfg.MaxConnsPerHost
		if maxConns <= 0 {
			maxConns = 50
		}
		transport := &http.Transport{
			MaxIdleConns:        maxConns,
			MaxIdleConnsPerHost: maxConns,
			IdleConnTimeout:     10 * time.Second,
		}
		hc = &http.Client{
			Transport: gzhttp.Transport(transport),
		}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = int(cfg.RateLimit)
			if burst < 1 {
				burst = 1
			}
		}
		limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	return &Client{
		hc:        hc,
		userAgent: cfg.UserAgent,
		referer:   cfg.Referer,
		limiter:   limiter,
	}
}

// Get issues a GET request with the client's identity headers applied.
// The caller owns the response body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}
	return c.hc.Do(req)
}

// GetBytes issues a GET request and returns the full response body.
//
// Status handling follows the engine's error taxonomy: 404 maps to
// ErrNotFound, any other non-2xx status to *StatusError.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}
	return io.ReadAll(resp.Body)
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.hc.CloseIdleConnections()
}
