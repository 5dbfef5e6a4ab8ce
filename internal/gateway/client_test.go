package gateway

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/metrics"
	"github.com/felixgeelhaar/scribe/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestDoAttachesStoredToken(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": nil})
	}))
	defer srv.Close()

	st := storage.NewMemoryStore()
	c := New(srv.URL, StoredToken{Storage: st})

	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/posts", nil, nil, nil))

	require.NoError(t, st.Put(map[string]string{storage.KeyToken: "abc"}))
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/posts", nil, nil, nil))

	require.NoError(t, st.Put(map[string]string{storage.KeyToken: "def"}))
	require.NoError(t, c.Do(context.Background(), http.MethodGet, "/posts", nil, nil, nil))

	assert.Equal(t, []string{"", "Bearer abc", "Bearer def"}, seen)
}

func TestDoSendsBodyAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/posts", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Hello", body["title"])

		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "ok", "data": map[string]any{"id": 5}})
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/v1/", nil)

	var out struct {
		Data struct {
			ID int `json:"id"`
		} `json:"data"`
	}
	err := c.Do(context.Background(), http.MethodPost, "posts", url.Values{"page": {"2"}}, map[string]string{"title": "Hello"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Data.ID)
}

func TestDoUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Unauthenticated."})
	}))
	defer srv.Close()

	st := storage.NewMemoryStore()
	require.NoError(t, st.Put(map[string]string{storage.KeyToken: "stale", storage.KeyUser: `{"id":1}`}))

	_, m := metrics.NewRegistry()
	var calls int32
	c := New(srv.URL, StoredToken{Storage: st},
		WithMetrics(m),
		WithUnauthorizedHandler(func() { atomic.AddInt32(&calls, 1) }),
	)

	err := c.Do(context.Background(), http.MethodGet, "/posts", nil, nil, nil)
	require.Error(t, err)

	assert.Equal(t, errors.KindUnauthorized, errors.KindOf(err))
	assert.Equal(t, "Please login to continue.", errors.Message(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "handler fires exactly once per 401")

	_, ok, _ := st.Get(storage.KeyToken)
	assert.False(t, ok, "stored token is removed")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Unauthorized))

	_ = c.Do(context.Background(), http.MethodGet, "/posts", nil, nil, nil)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDoValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"success":false,"message":"The given data was invalid.","errors":{"email":["Email is required"],"password":["Password is required"]}}`))
	}))
	defer srv.Close()

	var calls int
	c := New(srv.URL, nil, WithUnauthorizedHandler(func() { calls++ }))

	err := c.Do(context.Background(), http.MethodPost, "/login", nil, map[string]string{}, nil)
	require.Error(t, err)

	var apiErr *errors.APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.NotEmpty(t, apiErr.RequestID)
	assert.Equal(t, "Email is required", errors.Message(err))
	assert.Zero(t, calls)
}

func TestDoErrorStatusesPassThrough(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   string
	}{
		{http.StatusForbidden, `{"success":false,"message":"nope"}`, errors.MsgForbidden},
		{http.StatusNotFound, `{"success":false,"message":"Post not found"}`, errors.MsgNotFound},
		{http.StatusTooManyRequests, ``, errors.MsgRateLimited},
		{http.StatusInternalServerError, `{"success":false,"message":"Database down"}`, "Database down"},
		{http.StatusBadGateway, `<html>bad gateway</html>`, errors.MsgGeneric},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New(srv.URL, nil).Do(context.Background(), http.MethodGet, "/posts/1", nil, nil, nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.Message(err))
		})
	}
}

func TestDoServerRequestIDWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(RequestIDHeader, "server-id")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	err := New(srv.URL, nil).Do(context.Background(), http.MethodGet, "/posts/9", nil, nil, nil)
	var apiErr *errors.APIError
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, "server-id", apiErr.RequestID)
}

func TestDoNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, m := metrics.NewRegistry()
	err := New(addr, nil, WithMetrics(m)).Do(context.Background(), http.MethodGet, "/posts", nil, nil, nil)
	require.Error(t, err)

	assert.Equal(t, errors.KindNetwork, errors.KindOf(err))
	assert.Equal(t, "Network error. Please check your connection.", errors.Message(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NetworkErrors.WithLabelValues("/posts", "false")))
}

func TestDoTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	err := New(srv.URL, nil, WithTimeout(50*time.Millisecond)).
		Do(context.Background(), http.MethodGet, "/posts", nil, nil, nil)
	require.Error(t, err)

	var netErr *errors.NetworkError
	require.True(t, stderrors.As(err, &netErr))
	assert.True(t, netErr.Timeout)
	assert.Equal(t, errors.MsgNetwork, errors.Message(err))
}

func TestDoDecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	var out map[string]any
	err := New(srv.URL, nil).Do(context.Background(), http.MethodGet, "/posts", nil, nil, &out)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeAPIDecode))
}

func TestDefaultTimeout(t *testing.T) {
	c := New("", nil)
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestRoute(t *testing.T) {
	tests := map[string]string{
		"/posts":            "/posts",
		"/posts/42":         "/posts/:id",
		"posts/42/comments": "/posts/:id/comments",
		"/comments/7?x=1":   "/comments/:id",
		"/login":            "/login",
	}
	for in, want := range tests {
		assert.Equal(t, want, Route(in), in)
	}
}
