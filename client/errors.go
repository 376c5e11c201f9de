package client

import "errors"

// Common errors returned by the students API client.
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid students client configuration")
	// ErrNoData indicates the API answered with a JSON null
	ErrNoData = errors.New("no data returned")
)
