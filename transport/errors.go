package transport

import "errors"

// Common errors returned by the transport Client.
var (
	// ErrNoBaseURL is returned when a relative reference is requested but no
	// base URL is configured.
	ErrNoBaseURL = errors.New("relative request URL requires a base URL")

	// ErrInvalidURL is returned when a base URL or request reference cannot be parsed.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrInvalidConfig indicates invalid client configuration.
	ErrInvalidConfig = errors.New("invalid transport configuration")
)
