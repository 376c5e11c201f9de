package transport

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout is used when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL      string
	timeout      time.Duration
	userAgent    string
	verifyCert   bool
	headers      http.Header
	httpClient   *http.Client
	roundTripper http.RoundTripper
	logger       zerolog.Logger
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:    DefaultTimeout,
		userAgent:  "getjson",
		verifyCert: true,
		headers:    make(http.Header),
		logger:     zerolog.Nop(),
	}
}

// WithBaseURL sets the address relative request references resolve against.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithTimeout sets the HTTP client timeout. It covers the whole exchange,
// including reading the response body.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(o *clientOptions) {
		o.headers.Add(key, value)
	}
}

// WithInsecureSkipVerify disables certificate verification.
// Use with caution and only for development/testing.
func WithInsecureSkipVerify() Option {
	return func(o *clientOptions) {
		o.verifyCert = false
	}
}

// WithHTTPClient uses an existing http.Client as is. Timeout, TLS and round
// tripper options are ignored when it is set.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithRoundTripper replaces the underlying http.RoundTripper.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.roundTripper = rt
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
