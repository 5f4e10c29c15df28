package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkanhadi/temanrasa/internal/adapters/storage/memory"
	"github.com/arkanhadi/temanrasa/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *memory.TokenStore) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := memory.NewTokenStore()
	return NewClient(srv.URL, time.Second, tokens), tokens
}

func TestBearerTokenAttachedWhenPresent(t *testing.T) {
	var gotAuth string
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})

	require.NoError(t, tokens.SetToken("abc123"))
	require.NoError(t, c.getJSON(context.Background(), "/api/admin/dashboard", &struct{}{}))

	assert.Equal(t, "Bearer abc123", gotAuth)
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})

	require.NoError(t, c.getJSON(context.Background(), "/api/emotion/stats", &struct{}{}))
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedClearsStoredToken(t *testing.T) {
	c, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Could not validate credentials"}`))
	})
	require.NoError(t, tokens.SetToken("stale"))

	err := c.getJSON(context.Background(), "/api/admin/dashboard", &struct{}{})
	require.Error(t, err)

	assert.Empty(t, tokens.Token(), "a 401 must drop the stale token")
}

func TestServerErrorCarriesFastAPIDetail(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "No face detected in image"}`))
	})

	err := c.postJSON(context.Background(), "/api/emotion/detect", map[string]string{}, nil)
	require.Error(t, err)

	assert.Equal(t, "No face detected in image", domain.ErrorDetail(err))
	assert.Contains(t, err.Error(), "400")
}

func TestServerErrorWithoutDetailBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	})

	err := c.getJSON(context.Background(), "/api/emotion/stats", &struct{}{})
	require.Error(t, err)
	assert.Empty(t, domain.ErrorDetail(err))
}
