package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/fakeapi"
	"github.com/felixgeelhaar/scribe/internal/gateway"
	"github.com/felixgeelhaar/scribe/internal/storage"
)

type fixture struct {
	api      *fakeapi.Server
	store    storage.Storage
	client   *gateway.Client
	auth     *AuthService
	posts    *PostService
	comments *CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := fakeapi.New()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	st := storage.NewMemoryStore()
	client := gateway.New(srv.URL+fakeapi.BasePath, gateway.StoredToken{Storage: st})
	return &fixture{
		api:      fake,
		store:    st,
		client:   client,
		auth:     NewAuthService(client),
		posts:    NewPostService(client),
		comments: NewCommentService(client),
	}
}

func (f *fixture) signIn(t *testing.T, u domain.User) {
	t.Helper()
	require.NoError(t, f.store.Put(map[string]string{storage.KeyToken: f.api.Token(u.ID)}))
}

func TestAuthService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg, err := f.auth.Register(ctx, domain.RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "password1", PasswordConfirmation: "password1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", reg.User.Email)
	assert.NotEmpty(t, reg.Token)

	_, err = f.auth.Login(ctx, domain.LoginRequest{Email: "ada@example.com", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, errors.KindUnauthorized, errors.KindOf(err))

	login, err := f.auth.Login(ctx, domain.LoginRequest{Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	require.NoError(t, f.store.Put(map[string]string{storage.KeyToken: login.Token}))
	require.NoError(t, f.auth.Logout(ctx))
}

func TestAuthServiceValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.Register(context.Background(), domain.RegisterRequest{Name: "Ada"})
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Equal(t, "The email field is required.", errors.Message(err))
}

func TestPostService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.api.AddUser("Ada", "ada@example.com", "password1")
	f.signIn(t, u)
	for i := 0; i < 12; i++ {
		f.api.AddPost(u.ID, "Seeded", "Seeded body text")
	}

	page, err := f.posts.GetAll(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Data, DefaultPerPage)
	assert.Equal(t, domain.PageMeta{CurrentPage: 1, LastPage: 2, PerPage: 10, Total: 12}, page.Meta)

	page, err = f.posts.GetAll(ctx, 2, 5)
	require.NoError(t, err)
	assert.Len(t, page.Data, 5)
	assert.Equal(t, 2, page.Meta.CurrentPage)

	created, err := f.posts.Create(ctx, domain.CreatePostRequest{Title: "Hello world", Body: "A body long enough"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, created.User.ID)

	got, err := f.posts.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello world", got.Title)

	require.NoError(t, f.posts.Delete(ctx, created.ID))

	_, err = f.posts.GetByID(ctx, created.ID)
	require.Error(t, err)
	assert.Equal(t, errors.MsgNotFound, errors.Message(err))
}

func TestPostServiceForbiddenDelete(t *testing.T) {
	f := newFixture(t)
	owner := f.api.AddUser("Ada", "ada@example.com", "password1")
	other := f.api.AddUser("Grace", "grace@example.com", "password1")
	p := f.api.AddPost(owner.ID, "Mine", "Body of the post")
	f.signIn(t, other)

	err := f.posts.Delete(context.Background(), p.ID)
	require.Error(t, err)
	assert.Equal(t, errors.KindForbidden, errors.KindOf(err))
}

func TestCommentService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.api.AddUser("Ada", "ada@example.com", "password1")
	f.signIn(t, u)
	p := f.api.AddPost(u.ID, "Post", "Body of the post")
	first := f.api.AddComment(p.ID, u.ID, "first")

	c, err := f.comments.Create(ctx, domain.CreateCommentRequest{PostID: p.ID, Body: "second"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, c.PostID)

	list, err := f.comments.GetByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "second", list.Data[0].Body)

	updated, err := f.comments.Update(ctx, c.ID, domain.UpdateCommentRequest{Body: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Body)

	second, err := f.comments.GetByPostPage(ctx, p.ID, 2, 1)
	require.NoError(t, err)
	require.Len(t, second.Data, 1)
	assert.Equal(t, first.ID, second.Data[0].ID)
	assert.Equal(t, 2, second.Meta.LastPage)

	require.NoError(t, f.comments.Delete(ctx, c.ID))
	assert.Equal(t, 1, f.api.CommentCount(p.ID))
}

func TestServicesDoNotRetry(t *testing.T) {
	f := newFixture(t)
	u := f.api.AddUser("Ada", "ada@example.com", "password1")
	f.signIn(t, u)
	f.api.FailWith(http.MethodGet, "/posts", http.StatusInternalServerError, "Database unavailable")

	_, err := f.posts.GetAll(context.Background(), 1, 10)
	require.Error(t, err)
	assert.Equal(t, "Database unavailable", errors.Message(err))
	assert.Equal(t, 1, f.api.Hits(http.MethodGet, "/posts"))
}

type recordingDoer struct {
	method, path string
	query        url.Values
	body         any
}

func (r *recordingDoer) Do(_ context.Context, method, path string, query url.Values, body, _ any) error {
	r.method, r.path, r.query, r.body = method, path, query, body
	return nil
}

func TestRequestShapes(t *testing.T) {
	ctx := context.Background()
	rec := &recordingDoer{}

	_, _ = NewPostService(rec).GetAll(ctx, 3, 25)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/posts", rec.path)
	assert.Equal(t, "3", rec.query.Get("page"))
	assert.Equal(t, "25", rec.query.Get("per_page"))

	_, _ = NewCommentService(rec).GetByPost(ctx, 8)
	assert.Equal(t, "/posts/8/comments", rec.path)

	_, _ = NewCommentService(rec).GetByPostPage(ctx, 8, 2, 0)
	assert.Equal(t, "/posts/8/comments", rec.path)
	assert.Equal(t, "2", rec.query.Get("page"))
	assert.False(t, rec.query.Has("per_page"))

	_, _ = NewCommentService(rec).Update(ctx, 4, domain.UpdateCommentRequest{Body: "x"})
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/comments/4", rec.path)
	assert.Equal(t, domain.UpdateCommentRequest{Body: "x"}, rec.body)

	_ = NewPostService(rec).Delete(ctx, 5)
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/posts/5", rec.path)

	_ = NewAuthService(rec).Logout(ctx)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/logout", rec.path)
	assert.Nil(t, rec.body)
}
