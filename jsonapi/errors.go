package jsonapi

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRequestFailed is matched by every error GetJSON classifies, so callers can
// catch all JSON API failures with a single errors.Is check.
var ErrRequestFailed = errors.New("json api request failed")

// Sentinels for the individual error kinds.
var (
	// ErrInvalidArgument indicates a missing transport or request URL
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInfrastructure indicates a connectivity, DNS or TLS failure
	ErrInfrastructure = errors.New("http infrastructure failure")
	// ErrTimeout indicates the transport's own timeout elapsed
	ErrTimeout = errors.New("http request timed out")
	// ErrNonSuccessStatus indicates a status code outside 200-299
	ErrNonSuccessStatus = errors.New("non-success status code")
	// ErrEmptyBody indicates the response declared no content type
	ErrEmptyBody = errors.New("empty response body")
	// ErrUnexpectedMediaType indicates a content type other than application/json
	ErrUnexpectedMediaType = errors.New("unexpected response media type")
	// ErrDeserialization indicates the JSON body could not be decoded
	ErrDeserialization = errors.New("json deserialization failure")
)

// Kind classifies a RequestError.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindInfrastructure
	KindTimeout
	KindNonSuccessStatus
	KindEmptyBody
	KindUnexpectedMediaType
	KindDeserialization
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindInfrastructure:
		return "INFRASTRUCTURE_FAILURE"
	case KindTimeout:
		return "TIMEOUT"
	case KindNonSuccessStatus:
		return "NON_SUCCESS_STATUS"
	case KindEmptyBody:
		return "EMPTY_BODY"
	case KindUnexpectedMediaType:
		return "UNEXPECTED_MEDIA_TYPE"
	case KindDeserialization:
		return "DESERIALIZATION_FAILURE"
	default:
		return "UNKNOWN"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidArgument:
		return ErrInvalidArgument
	case KindInfrastructure:
		return ErrInfrastructure
	case KindTimeout:
		return ErrTimeout
	case KindNonSuccessStatus:
		return ErrNonSuccessStatus
	case KindEmptyBody:
		return ErrEmptyBody
	case KindUnexpectedMediaType:
		return ErrUnexpectedMediaType
	case KindDeserialization:
		return ErrDeserialization
	default:
		return nil
	}
}

// RequestError is returned by GetJSON for every classified failure.
// Only the fields relevant to Kind are populated.
type RequestError struct {
	Kind    Kind
	Message string

	// Param names the missing argument (KindInvalidArgument)
	Param string
	// URL and Method describe the request that failed
	URL    string
	Method string
	// StatusCode is set for KindNonSuccessStatus
	StatusCode int
	// MediaType is the declared media type for KindUnexpectedMediaType
	MediaType string

	Err error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	return e.Message
}

// Unwrap returns the low-level cause, if any
func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRequestFailed or the sentinel for e.Kind.
func (e *RequestError) Is(target error) bool {
	if target == ErrRequestFailed {
		return true
	}
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// IsNotFound checks if the API answered 404
func (e *RequestError) IsNotFound() bool {
	return e.Kind == KindNonSuccessStatus && e.StatusCode == http.StatusNotFound
}

// IsClientError checks if the API answered with a 4xx status
func (e *RequestError) IsClientError() bool {
	return e.Kind == KindNonSuccessStatus && e.StatusCode >= 400 && e.StatusCode < 500
}

// IsServerError checks if the API answered with a 5xx status
func (e *RequestError) IsServerError() bool {
	return e.Kind == KindNonSuccessStatus && e.StatusCode >= 500
}

// AsRequestError extracts a *RequestError from err's chain.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

func invalidArgument(param string) *RequestError {
	return &RequestError{
		Kind:    KindInvalidArgument,
		Message: fmt.Sprintf("%s must not be empty", param),
		Param:   param,
	}
}

func infrastructureFailure(uri string, cause, err error) *RequestError {
	return &RequestError{
		Kind:    KindInfrastructure,
		Message: fmt.Sprintf("An error has occurred while issuing GET request: '%s' (request URI: %s)", cause.Error(), uri),
		URL:     uri,
		Method:  http.MethodGet,
		Err:     err,
	}
}

func requestTimeout(uri string, err error) *RequestError {
	return &RequestError{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("GET request to %s timed out", uri),
		URL:     uri,
		Method:  http.MethodGet,
		Err:     err,
	}
}

func nonSuccessStatus(uri, method string, statusCode int) *RequestError {
	return &RequestError{
		Kind:       KindNonSuccessStatus,
		Message:    fmt.Sprintf("Got %d status code when issuing HTTP request (request URI: %s request method: %s)", statusCode, uri, method),
		URL:        uri,
		Method:     method,
		StatusCode: statusCode,
	}
}

func emptyBody(uri, method string) *RequestError {
	return &RequestError{
		Kind:    KindEmptyBody,
		Message: fmt.Sprintf("HTTP request returned empty response body. JSON response body is expected instead (request URI: %s request method: %s)", uri, method),
		URL:     uri,
		Method:  method,
	}
}

func unexpectedMediaType(uri, method, mediaType string) *RequestError {
	return &RequestError{
		Kind:      KindUnexpectedMediaType,
		Message:   fmt.Sprintf("HTTP response content has %s media type. %s media type is expected instead (request URI: %s request method: %s)", mediaType, MediaTypeJSON, uri, method),
		URL:       uri,
		Method:    method,
		MediaType: mediaType,
	}
}

func deserializationFailure(uri, method string, err error) *RequestError {
	return &RequestError{
		Kind:    KindDeserialization,
		Message: fmt.Sprintf("An error has occurred while deserializing JSON content of HTTP response: '%s' (request URI: %s request method: %s)", err.Error(), uri, method),
		URL:     uri,
		Method:  method,
		Err:     err,
	}
}
