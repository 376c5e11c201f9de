package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/getjson/jsonapi"
	"github.com/s0up4200/getjson/server"
	"github.com/s0up4200/getjson/students"
)

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "valid config", baseURL: "http://localhost:5000"},
		{name: "missing URL", baseURL: "", wantErr: true},
		{name: "relative URL", baseURL: "localhost:5000/api", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "http://localhost:5000/", client.BaseURL())
		})
	}
}

func TestClientOptions(t *testing.T) {
	client, err := NewClient("http://localhost:5000", zerolog.Nop(), WithTimeout(5*time.Second), WithConcurrency(8))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, client.transport.Timeout())
	assert.Equal(t, 8, client.concurrency)

	client, err = NewClient("http://localhost:5000", zerolog.Nop(), WithConcurrency(0))
	require.NoError(t, err)
	assert.Equal(t, DefaultConcurrency, client.concurrency)
}

func newDemoClient(t *testing.T) *Client {
	t.Helper()
	srv, err := server.New(server.Config{}, students.NewSampleRepository(), zerolog.Nop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client, err := NewClient(ts.URL, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestListAndFetchDetails(t *testing.T) {
	client := newDemoClient(t)
	ctx := context.Background()

	require.NoError(t, client.TestConnection(ctx))

	items, err := client.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	results := client.FetchAllDetails(ctx, items)
	require.Len(t, results, 3)

	for i, res := range results {
		require.NoError(t, res.Err)
		require.NotNil(t, res.Details)
		assert.Equal(t, items[i].ID, res.Details.ID)
		assert.Equal(t, items[i].Name, res.Details.Name)
	}
	assert.Equal(t, "Italy", results[1].Details.Country)

	details, err := client.GetStudentByID(ctx, items[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "Jack", details.Name)
	assert.False(t, details.IsActive)
}

func TestFetchAllDetailsKeepsGoingAfterFailure(t *testing.T) {
	client := newDemoClient(t)
	ctx := context.Background()

	items, err := client.ListStudents(ctx)
	require.NoError(t, err)

	missing := students.StudentListItem{ID: uuid.New(), Name: "Ghost"}
	items = append([]students.StudentListItem{missing}, items...)

	results := client.FetchAllDetails(ctx, items)
	require.Len(t, results, 4)

	assert.ErrorIs(t, results[0].Err, jsonapi.ErrNonSuccessStatus)
	assert.Nil(t, results[0].Details)
	assert.Equal(t, "Ghost", results[0].Item.Name)

	for _, res := range results[1:] {
		assert.NoError(t, res.Err)
		assert.NotNil(t, res.Details)
	}
}

func TestNullResponses(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(nil)
	}))
	defer ts.Close()

	client, err := NewClient(ts.URL, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.ListStudents(context.Background())
	assert.ErrorIs(t, err, ErrNoData)

	_, err = client.GetStudentByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestStrictDecoding(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + uuid.NewString() + `","name":"Bob","nickname":"bobby"}`))
	}))
	defer ts.Close()

	lenient, err := NewClient(ts.URL, zerolog.Nop())
	require.NoError(t, err)
	details, err := lenient.GetStudentByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "Bob", details.Name)

	strict, err := NewClient(ts.URL, zerolog.Nop(), WithStrictDecoding())
	require.NoError(t, err)
	_, err = strict.GetStudentByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, jsonapi.ErrDeserialization)
}
