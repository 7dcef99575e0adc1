package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_UnwrapsDataEnvelope(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/subjects", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":1,"title":"Mathematics"}]}`))
	}))
	defer srv.Close()

	api := New(srv.URL)

	// Act
	var subjects []Subject
	err := api.get(context.Background(), "/api/subjects", nil, &subjects)

	// Assert
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Mathematics", subjects[0].Title)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	api := New(srv.URL)
	api.SetToken("my-token")

	require.NoError(t, api.get(context.Background(), "/api/grades", nil, nil))
	assert.Equal(t, "Bearer my-token", gotAuth)

	api.SetToken("")
	require.NoError(t, api.get(context.Background(), "/api/grades", nil, nil))
	assert.Empty(t, gotAuth)
}

func TestClient_NormalizesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"result not found"}`))
	}))
	defer srv.Close()

	api := New(srv.URL)

	err := api.get(context.Background(), "/api/results/99", nil, nil)

	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "result not found", apiErr.Message)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
}

func TestClient_ErrorWithoutBodyFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	api := New(srv.URL)

	err := api.get(context.Background(), "/api/subjects", nil, nil)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "Internal Server Error", apiErr.Message)
}

func TestClient_ContextCancellationAbortsRequest(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
	}))
	defer srv.Close()
	defer close(release)

	api := New(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- api.get(ctx, "/api/subjects", nil, nil)
	}()

	<-started
	cancel()

	err := <-errCh
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
