package jsonapi

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
)

// MediaTypeJSON is the only media type GetJSON accepts.
const MediaTypeJSON = "application/json"

// Transport sends GET requests on behalf of GetJSON. Implementations resolve
// relative references against their own base address and must return as soon
// as response headers are available.
type Transport interface {
	Get(ctx context.Context, ref string) (*http.Response, error)
}

// Option configures a single GetJSON call.
type Option func(*options)

type options struct {
	codec  Codec
	logger zerolog.Logger
}

// WithCodec replaces the default encoding/json codec.
func WithCodec(codec Codec) Option {
	return func(o *options) {
		if codec != nil {
			o.codec = codec
		}
	}
}

// WithDecodeOptions configures the default encoding/json codec.
func WithDecodeOptions(opts DecodeOptions) Option {
	return func(o *options) {
		o.codec = StdCodec{Options: opts}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// GetJSON issues a GET request for requestURL over t and decodes the JSON
// response body into a T.
//
// A nil result with a nil error means the API returned a JSON null. Every
// classified failure is a *RequestError matching ErrRequestFailed. When ctx is
// done the transport error is returned as is, so errors.Is(err, ctx.Err())
// holds and the failure is never reported as ErrTimeout.
func GetJSON[T any](ctx context.Context, t Transport, requestURL string, opts ...Option) (*T, error) {
	if isNilTransport(t) {
		return nil, invalidArgument("transport")
	}
	if strings.TrimSpace(requestURL) == "" {
		return nil, invalidArgument("requestURL")
	}

	o := options{
		codec:  StdCodec{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	resp, err := send(ctx, t, requestURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	uri, method := requestInfo(resp, requestURL)

	o.logger.Debug().
		Str("url", uri).
		Int("status", resp.StatusCode).
		Str("content_type", resp.Header.Get("Content-Type")).
		Msg("Received JSON API response")

	if err := ensureSuccessStatus(resp, uri, method); err != nil {
		return nil, err
	}

	if err := ensureJSONContent(resp, uri, method); err != nil {
		return nil, err
	}

	return decode[T](ctx, resp.Body, o.codec, uri, method)
}

// send dispatches the request and classifies transport failures.
func send(ctx context.Context, t Transport, requestURL string) (*http.Response, error) {
	resp, err := t.Get(ctx, requestURL)
	if err == nil {
		return resp, nil
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return nil, err
	}

	return nil, classifyTransportError(ctx, urlErr.URL, urlErr.Err, err)
}

// classifyTransportError maps a send or body read failure onto an error kind.
// cause is the innermost transport error used in messages.
func classifyTransportError(ctx context.Context, uri string, cause, err error) error {
	if ctx.Err() != nil {
		return err
	}
	if isTimeout(err) {
		return requestTimeout(uri, err)
	}
	if cause == nil {
		cause = err
	}
	return infrastructureFailure(uri, cause, err)
}

func ensureSuccessStatus(resp *http.Response, uri, method string) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nonSuccessStatus(uri, method, resp.StatusCode)
	}
	return nil
}

func ensureJSONContent(resp *http.Response, uri, method string) error {
	contentType := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if contentType == "" {
		return emptyBody(uri, method)
	}

	mediaType := declaredMediaType(contentType)
	if mediaType != MediaTypeJSON {
		return unexpectedMediaType(uri, method, mediaType)
	}
	return nil
}

func decode[T any](ctx context.Context, body io.Reader, codec Codec, uri, method string) (*T, error) {
	tracker := &readTracker{r: body}

	var result *T
	err := codec.NewDecoder(tracker).Decode(&result)
	switch {
	case err == nil:
		return result, nil
	case tracker.err != nil:
		return nil, classifyTransportError(ctx, uri, tracker.err, tracker.err)
	case errors.Is(err, io.EOF) && !tracker.content:
		// a blank document decodes like a JSON null
		return nil, nil
	default:
		return nil, deserializationFailure(uri, method, err)
	}
}

// declaredMediaType strips parameters from a Content-Type value and keeps
// the media type exactly as declared.
func declaredMediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.TrimSpace(contentType)
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func requestInfo(resp *http.Response, fallback string) (uri, method string) {
	uri, method = fallback, http.MethodGet
	if resp.Request != nil {
		if resp.Request.URL != nil {
			uri = resp.Request.URL.String()
		}
		if resp.Request.Method != "" {
			method = resp.Request.Method
		}
	}
	return uri, method
}

func isNilTransport(t Transport) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Func:
		return v.IsNil()
	}
	return false
}
