package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client is a reusable HTTP transport for JSON APIs. It is safe for
// concurrent use by multiple goroutines.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	headers    http.Header
	logger     zerolog.Logger
}

// NewClient creates a new transport Client
func NewClient(opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if o.timeout < 0 {
		return nil, fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}

	client := &Client{
		userAgent: o.userAgent,
		headers:   o.headers,
		logger:    o.logger,
	}

	if o.baseURL != "" {
		base, err := parseBaseURL(o.baseURL)
		if err != nil {
			return nil, err
		}
		client.baseURL = base
	}

	if o.httpClient != nil {
		client.httpClient = o.httpClient
		return client, nil
	}

	rt := o.roundTripper
	if rt == nil && !o.verifyCert {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
		rt = tr
	}

	client.httpClient = &http.Client{
		Timeout:   o.timeout,
		Transport: rt,
	}

	return client, nil
}

// parseBaseURL requires an absolute URL and ensures its path ends with a
// slash, so "api/students" under "http://host/v1" resolves to
// "http://host/v1/api/students".
func parseBaseURL(raw string) (*url.URL, error) {
	base, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: base URL %q: %v", ErrInvalidURL, raw, err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be absolute", ErrInvalidURL, raw)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base, nil
}

// BaseURL returns the configured base URL, or nil.
func (c *Client) BaseURL() *url.URL {
	if c.baseURL == nil {
		return nil
	}
	u := *c.baseURL
	return &u
}

// Timeout returns the timeout of the underlying http.Client
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// ResolveReference turns ref into an absolute URL, using the base URL for
// relative references.
func (c *Client) ResolveReference(ref string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidURL, ref, err)
	}
	if u.IsAbs() {
		return u, nil
	}
	if c.baseURL == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoBaseURL, ref)
	}
	return c.baseURL.ResolveReference(u), nil
}

// Get sends a GET request and returns once the response headers have been
// read. The caller must close the response body.
func (c *Client) Get(ctx context.Context, ref string) (*http.Response, error) {
	target, err := c.ResolveReference(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Msg("Sending HTTP request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("url", req.URL.String()).
			Dur("elapsed", time.Since(start)).
			Msg("HTTP request failed")
		return nil, err
	}

	c.logger.Debug().
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Received HTTP response headers")

	return resp, nil
}
