package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/getjson/jsonapi"
	"github.com/s0up4200/getjson/students"
	"github.com/s0up4200/getjson/transport"
)

func newTestServer(t *testing.T, cfg Config, repo *students.Repository) (*httptest.Server, *transport.Client) {
	t.Helper()
	srv, err := New(cfg, repo, zerolog.Nop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client, err := transport.NewClient(transport.WithBaseURL(ts.URL))
	require.NoError(t, err)
	return ts, client
}

func TestNew(t *testing.T) {
	_, err := New(Config{}, nil, zerolog.Nop())
	assert.Error(t, err)

	_, err = New(Config{RateLimit: -1}, students.NewSampleRepository(), zerolog.Nop())
	assert.Error(t, err)
}

func TestListStudents(t *testing.T) {
	ts, client := newTestServer(t, Config{}, students.NewSampleRepository())

	items, err := jsonapi.GetJSON[[]students.StudentListItem](context.Background(), client, "api/students")
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Len(t, *items, 3)

	assert.Equal(t, "Alice", (*items)[0].Name)
	assert.Equal(t, "Bob", (*items)[1].Name)
	assert.Equal(t, "Jack", (*items)[2].Name)

	for _, item := range *items {
		assert.Equal(t, ts.URL+"/api/students/"+item.ID.String(), item.SelfURL)
	}
}

func TestGetStudent(t *testing.T) {
	id := uuid.New()
	repo, err := students.NewRepository(students.Student{
		ID: id, Name: "Bob", Age: 34, Country: "Italy", IsActive: true, Credits: 45.56,
	})
	require.NoError(t, err)
	_, client := newTestServer(t, Config{}, repo)

	t.Run("found", func(t *testing.T) {
		details, err := jsonapi.GetJSON[students.StudentDetails](context.Background(), client, "api/students/"+id.String())
		require.NoError(t, err)
		require.NotNil(t, details)
		assert.Equal(t, students.StudentDetails{
			ID: id, Name: "Bob", Age: 34, Country: "Italy", IsActive: true, Credits: 45.56,
		}, *details)
	})

	tests := []struct {
		name string
		ref  string
	}{
		{"unknown id", "api/students/" + uuid.New().String()},
		{"malformed id", "api/students/not-a-guid"},
		{"unknown route", "api/courses"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jsonapi.GetJSON[students.StudentDetails](context.Background(), client, tt.ref)
			require.ErrorIs(t, err, jsonapi.ErrNonSuccessStatus)
			reqErr, ok := jsonapi.AsRequestError(err)
			require.True(t, ok)
			assert.True(t, reqErr.IsNotFound())
		})
	}
}

func TestProblemResponseIsNotJSONMediaType(t *testing.T) {
	srv, err := New(Config{}, students.NewSampleRepository(), zerolog.Nop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/problem+json"))
	assert.Contains(t, rec.Body.String(), `"status":404`)
}

func TestRateLimit(t *testing.T) {
	srv, err := New(Config{RateLimit: 0.001, RateBurst: 2}, students.NewSampleRepository(), zerolog.Nop())
	require.NoError(t, err)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/students", nil))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestMiddlewareHeaders(t *testing.T) {
	srv, err := New(Config{AllowedOrigins: []string{"http://example.com"}}, students.NewSampleRepository(), zerolog.Nop())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	_, err = uuid.Parse(rec.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	srv, err := New(Config{Addr: "127.0.0.1:0"}, students.NewSampleRepository(), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, srv.ListenAndServe(ctx))
}

func TestSelfURLScheme(t *testing.T) {
	id := uuid.MustParse("5d1d0f3c-3c4a-4f44-9d7e-0a9e5a4bb2a1")

	tests := []struct {
		name      string
		forwarded string
		expected  string
	}{
		{"no header", "", "http://students.test/api/students/" + id.String()},
		{"https proxy", "https", "https://students.test/api/students/" + id.String()},
		{"mixed case", " HTTPS ", "https://students.test/api/students/" + id.String()},
		{"unknown scheme ignored", "javascript", "http://students.test/api/students/" + id.String()},
		{"injected value ignored", "https://evil.test/x?", "http://students.test/api/students/" + id.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://students.test/api/students", nil)
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Proto", tt.forwarded)
			}
			assert.Equal(t, tt.expected, selfURL(req, id))
		})
	}
}
