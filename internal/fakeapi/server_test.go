package fakeapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
)

type harness struct {
	t   *testing.T
	api *Server
	srv *httptest.Server
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	api := New(opts...)
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return &harness{t: t, api: api, srv: srv}
}

func (h *harness) do(method, path, token string, body any) (*http.Response, []byte) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, h.srv.URL+BasePath+path, &buf)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func TestRegisterLoginLogout(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(http.MethodPost, "/register", "", domain.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password1", PasswordConfirmation: "password1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var reg domain.Envelope[domain.AuthData]
	require.NoError(t, json.Unmarshal(body, &reg))
	assert.True(t, reg.Success)
	assert.NotEmpty(t, reg.Data.Token)
	assert.Equal(t, "Ada", reg.Data.User.Name)

	resp, body = h.do(http.MethodPost, "/login", "", domain.LoginRequest{Email: "ADA@example.com", Password: "password1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var login domain.Envelope[domain.AuthData]
	require.NoError(t, json.Unmarshal(body, &login))

	resp, _ = h.do(http.MethodPost, "/logout", login.Data.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = h.do(http.MethodGet, "/posts", login.Data.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "revoked token is rejected")

	resp, _ = h.do(http.MethodGet, "/posts", reg.Data.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "other tokens stay valid")
}

func TestRegisterValidationOrder(t *testing.T) {
	h := newHarness(t)
	h.api.AddUser("Taken", "taken@example.com", "password1")

	resp, body := h.do(http.MethodPost, "/register", "", domain.RegisterRequest{
		Email: "taken@example.com", Password: "short",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var env errors.ErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	require.Len(t, env.Errors, 3)
	assert.Equal(t, "name", env.Errors[0].Field)
	assert.Equal(t, "The email has already been taken.", env.Errors.Get("email"))
	assert.Equal(t, "The password must be at least 8 characters.", env.Errors.Get("password"))
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	h := newHarness(t)
	long := strings.Repeat("p", 73)

	resp, body := h.do(http.MethodPost, "/register", "", domain.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: long, PasswordConfirmation: long,
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var env errors.ErrorEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, "The password must not be greater than 72 bytes.", env.Errors.Get("password"))
	assert.Equal(t, 0, h.api.Stats().Users)

	fits := strings.Repeat("p", 72)
	resp, _ = h.do(http.MethodPost, "/register", "", domain.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: fits, PasswordConfirmation: fits,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = h.do(http.MethodPost, "/login", "", domain.LoginRequest{Email: "ada@example.com", Password: fits})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newHarness(t)
	h.api.AddUser("Ada", "ada@example.com", "password1")

	resp, _ := h.do(http.MethodPost, "/login", "", domain.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	h := newHarness(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/posts"},
		{http.MethodGet, "/posts/1"},
		{http.MethodPost, "/posts"},
		{http.MethodPost, "/comments"},
		{http.MethodPost, "/logout"},
	} {
		resp, _ := h.do(tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, tc.method+" "+tc.path)
		resp, _ = h.do(tc.method, tc.path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, tc.method+" "+tc.path)
	}
}

func TestExpiredToken(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	h := newHarness(t, WithClock(func() time.Time { return now }))
	u := h.api.AddUser("Ada", "ada@example.com", "password1")
	token := h.api.Token(u.ID)

	now = now.Add(48 * time.Hour)
	resp, _ := h.do(http.MethodGet, "/posts", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListPostsPagination(t *testing.T) {
	h := newHarness(t)
	u := h.api.AddUser("Ada", "ada@example.com", "password1")
	token := h.api.Token(u.ID)
	for i := 0; i < 23; i++ {
		h.api.AddPost(u.ID, "Title", "Body of the post")
	}

	resp, body := h.do(http.MethodGet, "/posts?page=3&per_page=10", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env domain.Envelope[domain.Page[domain.Post]]
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Len(t, env.Data.Data, 3)
	assert.Equal(t, domain.PageMeta{CurrentPage: 3, LastPage: 3, PerPage: 10, Total: 23}, env.Data.Meta)
	assert.Equal(t, int64(3), env.Data.Data[0].ID, "newest first")
}

func TestListPostsEmpty(t *testing.T) {
	h := newHarness(t)
	u := h.api.AddUser("Ada", "ada@example.com", "password1")

	_, body := h.do(http.MethodGet, "/posts", h.api.Token(u.ID), nil)
	var env domain.Envelope[domain.Page[domain.Post]]
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Empty(t, env.Data.Data)
	assert.NotNil(t, env.Data.Data)
	assert.Equal(t, 1, env.Data.Meta.LastPage)
}

func TestDeletePostOwnership(t *testing.T) {
	h := newHarness(t)
	owner := h.api.AddUser("Ada", "ada@example.com", "password1")
	other := h.api.AddUser("Grace", "grace@example.com", "password1")
	p := h.api.AddPost(owner.ID, "Mine", "Body of the post")
	h.api.AddComment(p.ID, other.ID, "Nice")

	resp, _ := h.do(http.MethodDelete, "/posts/1", h.api.Token(other.ID), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = h.do(http.MethodDelete, "/posts/1", h.api.Token(owner.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, exists := h.api.Post(p.ID)
	assert.False(t, exists)
	assert.Zero(t, h.api.CommentCount(p.ID))

	resp, _ = h.do(http.MethodGet, "/posts/1", h.api.Token(owner.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCommentLifecycle(t *testing.T) {
	h := newHarness(t)
	ada := h.api.AddUser("Ada", "ada@example.com", "password1")
	grace := h.api.AddUser("Grace", "grace@example.com", "password1")
	p := h.api.AddPost(ada.ID, "Post", "Body of the post")
	token := h.api.Token(ada.ID)

	resp, body := h.do(http.MethodPost, "/comments", token, domain.CreateCommentRequest{PostID: p.ID, Body: "hi"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created domain.Envelope[domain.Comment]
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Ada", created.Data.User.Name)

	resp, _ = h.do(http.MethodPut, "/comments/1", h.api.Token(grace.ID), domain.UpdateCommentRequest{Body: "hijack"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = h.do(http.MethodPut, "/comments/1", token, domain.UpdateCommentRequest{Body: "edited"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated domain.Envelope[domain.Comment]
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "edited", updated.Data.Body)

	resp, _ = h.do(http.MethodPost, "/comments", token, domain.CreateCommentRequest{PostID: 99, Body: ""})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = h.do(http.MethodDelete, "/comments/1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Zero(t, h.api.CommentCount(p.ID))
}

func TestFailWithAndHits(t *testing.T) {
	h := newHarness(t)
	u := h.api.AddUser("Ada", "ada@example.com", "password1")
	token := h.api.Token(u.ID)
	h.api.AddPost(u.ID, "Post", "Body of the post")

	h.api.FailWith(http.MethodGet, "/posts/:id", http.StatusTooManyRequests, "Slow down")
	resp, body := h.do(http.MethodGet, "/posts/1", token, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, string(body), "Slow down")

	h.api.Recover()
	resp, _ = h.do(http.MethodGet, "/posts/1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, h.api.Hits(http.MethodGet, "/posts/:id"))
}

func TestRequestIDEchoed(t *testing.T) {
	h := newHarness(t)
	req, _ := http.NewRequest(http.MethodGet, h.srv.URL+BasePath+"/posts", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestSeed(t *testing.T) {
	h := newHarness(t)
	demo := h.api.Seed()
	assert.Equal(t, "demo@example.com", demo.Email)

	resp, body := h.do(http.MethodPost, "/login", "", domain.LoginRequest{Email: "demo@example.com", Password: "password"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}

func TestStats(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, Stats{}, h.api.Stats())

	h.api.Seed()
	stats := h.api.Stats()
	assert.Equal(t, 2, stats.Users)
	assert.Equal(t, 23, stats.Posts)
	assert.Equal(t, 10, stats.Comments)
}
