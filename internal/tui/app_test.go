package tui

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/log"
	"github.com/felixgeelhaar/scribe/internal/resource"
	"github.com/felixgeelhaar/scribe/internal/session"
	"github.com/felixgeelhaar/scribe/internal/storage"
)

var (
	ada   = domain.User{ID: 1, Name: "Ada Lovelace", Email: "ada@example.com"}
	grace = domain.User{ID: 2, Name: "Grace Hopper", Email: "grace@example.com"}
)

type memPosts struct {
	mu      sync.Mutex
	posts   []domain.Post
	nextID  int64
	calls   []int
	deleted []int64
}

func (p *memPosts) GetAll(_ context.Context, page, perPage int) (domain.Page[domain.Post], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, page)

	sorted := append([]domain.Post(nil), p.posts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })

	last := (len(sorted) + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	start := min((page-1)*perPage, len(sorted))
	end := min(start+perPage, len(sorted))
	return domain.Page[domain.Post]{
		Data: sorted[start:end],
		Meta: domain.PageMeta{CurrentPage: page, LastPage: last, PerPage: perPage, Total: len(sorted)},
	}, nil
}

func (p *memPosts) GetByID(_ context.Context, id int64) (domain.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, post := range p.posts {
		if post.ID == id {
			return post, nil
		}
	}
	return domain.Post{}, &errors.APIError{StatusCode: http.StatusNotFound}
}

func (p *memPosts) Create(_ context.Context, req domain.CreatePostRequest) (domain.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	post := domain.Post{ID: p.nextID, Title: req.Title, Body: req.Body, User: domain.Author{ID: ada.ID, Name: ada.Name}}
	p.posts = append(p.posts, post)
	return post, nil
}

func (p *memPosts) Delete(_ context.Context, id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, id)
	for i, post := range p.posts {
		if post.ID == id {
			p.posts = append(p.posts[:i], p.posts[i+1:]...)
			return nil
		}
	}
	return &errors.APIError{StatusCode: http.StatusNotFound}
}

type memComments struct {
	mu       sync.Mutex
	comments []domain.Comment
	nextID   int64
	fetches  int
}

func (c *memComments) GetByPost(_ context.Context, postID int64) (domain.Page[domain.Comment], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetches++
	var out []domain.Comment
	for _, cm := range c.comments {
		if cm.PostID == postID {
			out = append(out, cm)
		}
	}
	return domain.Page[domain.Comment]{Data: out}, nil
}

func (c *memComments) Create(_ context.Context, req domain.CreateCommentRequest) (domain.Comment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	return domain.Comment{ID: c.nextID, PostID: req.PostID, Body: req.Body, User: domain.Author{ID: ada.ID, Name: ada.Name}}, nil
}

func (c *memComments) Update(_ context.Context, id int64, req domain.UpdateCommentRequest) (domain.Comment, error) {
	return domain.Comment{ID: id, PostID: 1, Body: req.Body, User: domain.Author{ID: ada.ID, Name: ada.Name}}, nil
}

func (c *memComments) Delete(_ context.Context, _ int64) error {
	return nil
}

type stubAuth struct {
	err     error
	logouts int
}

func (a *stubAuth) Register(_ context.Context, req domain.RegisterRequest) (domain.AuthData, error) {
	if a.err != nil {
		return domain.AuthData{}, a.err
	}
	return domain.AuthData{User: domain.User{ID: 3, Name: req.Name, Email: req.Email}, Token: "new-token"}, nil
}

func (a *stubAuth) Login(_ context.Context, _ domain.LoginRequest) (domain.AuthData, error) {
	if a.err != nil {
		return domain.AuthData{}, a.err
	}
	return domain.AuthData{User: ada, Token: "ada-token"}, nil
}

func (a *stubAuth) Logout(_ context.Context) error {
	a.logouts++
	return nil
}

type harness struct {
	t        *testing.T
	model    *Model
	session  *session.Store
	router   *Router
	posts    *memPosts
	comments *memComments
	auth     *stubAuth
}

func newHarness(t *testing.T, start resource.Route, signedIn bool) *harness {
	t.Helper()

	sess := session.New(storage.NewMemoryStore(), session.WithLogger(log.Discard()))
	sess.Hydrate()
	if signedIn {
		require.NoError(t, sess.SetAuth(ada, "ada-token"))
	}

	posts := &memPosts{}
	for i := int64(1); i <= 12; i++ {
		author := ada
		if i%2 == 0 {
			author = grace
		}
		posts.posts = append(posts.posts, domain.Post{
			ID: i, Title: "Post " + string(rune('A'+i-1)), Body: "Some body text for the post.",
			User: domain.Author{ID: author.ID, Name: author.Name},
		})
	}
	posts.nextID = 12

	comments := &memComments{nextID: 20, comments: []domain.Comment{
		{ID: 11, PostID: 12, Body: "from grace", User: domain.Author{ID: grace.ID, Name: grace.Name}},
		{ID: 10, PostID: 12, Body: "from ada", User: domain.Author{ID: ada.ID, Name: ada.Name}},
	}}

	router := NewRouter(start)
	h := &harness{t: t, session: sess, router: router, posts: posts, comments: comments, auth: &stubAuth{}}
	h.model = New(context.Background(), Deps{
		Session:  sess,
		Router:   router,
		Auth:     h.auth,
		Posts:    posts,
		Comments: comments,
		Logger:   log.Discard(),
		PerPage:  5,
		NoColor:  true,
	})
	h.drain(h.model.screen.init())
	return h
}

// exec runs cmd, dropping commands that wait on timers such as blink or
// spinner ticks
func exec(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func (h *harness) drain(cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 200; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := exec(next).(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			_, c := h.model.Update(msg)
			queue = append(queue, c)
		}
	}
}

func (h *harness) send(msg tea.Msg) {
	_, cmd := h.model.Update(msg)
	h.drain(cmd)
}

func (h *harness) key(k string) {
	switch k {
	case "enter":
		h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "tab":
		h.send(tea.KeyMsg{Type: tea.KeyTab})
	case "esc":
		h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "right":
		h.send(tea.KeyMsg{Type: tea.KeyRight})
	case "down":
		h.send(tea.KeyMsg{Type: tea.KeyDown})
	case "ctrl+s":
		h.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	case "ctrl+o":
		h.send(tea.KeyMsg{Type: tea.KeyCtrlO})
	case "ctrl+c":
		h.send(tea.KeyMsg{Type: tea.KeyCtrlC})
	default:
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	}
}

func (h *harness) typeText(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) view() string {
	return h.model.View()
}

func TestGuardsOnStart(t *testing.T) {
	h := newHarness(t, resource.RouteFeed, false)
	assert.Equal(t, resource.RouteLogin, h.model.route)
	assert.Equal(t, resource.RouteLogin, h.router.Current())

	h = newHarness(t, resource.RouteRegister, true)
	assert.Equal(t, resource.RouteFeed, h.model.route)
}

func TestNotFound(t *testing.T) {
	h := newHarness(t, resource.Route("/nowhere"), false)
	assert.Equal(t, resource.RouteNotFound, h.model.route)
	assert.Contains(t, h.view(), "does not exist")

	h.key("esc")
	assert.Equal(t, resource.RouteHome, h.model.route)
}

func TestHomeNavigation(t *testing.T) {
	h := newHarness(t, resource.RouteHome, false)
	assert.Contains(t, h.view(), "not signed in")

	h.key("r")
	assert.Equal(t, resource.RouteRegister, h.model.route)
	h.key("esc")
	h.key("l")
	assert.Equal(t, resource.RouteLogin, h.model.route)
}

func TestLoginFlow(t *testing.T) {
	h := newHarness(t, resource.RouteLogin, false)

	h.typeText("ada@example.com")
	h.key("tab")
	h.typeText("secret1")
	h.key("enter")

	assert.True(t, h.session.IsAuthenticated())
	assert.Equal(t, resource.RouteFeed, h.model.route)

	out := h.view()
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Latest posts")
	assert.Contains(t, out, "Post L", "newest post first")
	assert.Contains(t, out, "12 posts")
}

func TestLoginValidation(t *testing.T) {
	h := newHarness(t, resource.RouteLogin, false)

	h.key("tab")
	h.key("enter")

	assert.False(t, h.session.IsAuthenticated())
	assert.Contains(t, h.view(), "Email is required")
	assert.Equal(t, resource.RouteLogin, h.model.route)
}

func TestLoginServerError(t *testing.T) {
	h := newHarness(t, resource.RouteLogin, false)
	h.auth.err = &errors.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}

	h.typeText("ada@example.com")
	h.key("tab")
	h.typeText("wrongpw")
	h.key("enter")

	assert.False(t, h.session.IsAuthenticated())
	assert.Equal(t, resource.RouteLogin, h.model.route)
	assert.Contains(t, h.view(), errors.MsgUnauthorized)
}

func TestRegisterFlow(t *testing.T) {
	h := newHarness(t, resource.RouteRegister, false)

	h.typeText("Linus")
	h.key("tab")
	h.typeText("linus@example.com")
	h.key("tab")
	h.typeText("password1")
	h.key("tab")
	h.typeText("password1")
	h.key("enter")

	require.True(t, h.session.IsAuthenticated())
	assert.Equal(t, "Linus", h.session.User().Name)
	assert.Equal(t, resource.RouteFeed, h.model.route)
}

func TestFeedPagination(t *testing.T) {
	h := newHarness(t, resource.RouteFeed, true)

	out := h.view()
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "next ›")

	h.key("down")
	h.key("right")

	feed := h.model.screen.(*feedScreen)
	view := feed.posts.Snapshot()
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 0, feed.cursor, "page change scrolls to top")
	assert.Equal(t, []int{1, 2}, h.posts.calls)
	assert.Contains(t, h.view(), "[2]")

	h.key("3")
	assert.Equal(t, 3, feed.posts.Page())
}

func TestFeedSinglePageHasNoPagination(t *testing.T) {
	h := newHarness(t, resource.RouteHome, true)
	h.posts.posts = h.posts.posts[:3]

	h.key("f")
	require.Equal(t, resource.RouteFeed, h.model.route)
	out := h.view()
	assert.NotContains(t, out, "next ›")
	assert.NotContains(t, out, "[1]")
}

func TestOpenPostAndComment(t *testing.T) {
	h := newHarness(t, resource.RouteFeed, true)

	h.key("enter")
	require.Equal(t, resource.PostRoute(12), h.model.route)
	out := h.view()
	assert.Contains(t, out, "Post L")
	assert.Contains(t, out, "Comments (2)")

	h.key("c")
	h.typeText("hi")
	h.key("ctrl+s")

	post := h.model.screen.(*postScreen)
	list := post.comments.Snapshot().Data
	require.Len(t, list, 3)
	assert.Equal(t, "hi", list[0].Body)
	assert.Equal(t, 1, h.comments.fetches, "no refetch after adding")
	assert.Contains(t, h.view(), "Comment added")
}

func TestCommentEmptyRejected(t *testing.T) {
	h := newHarness(t, resource.PostRoute(12), true)

	h.key("c")
	h.key("ctrl+s")

	post := h.model.screen.(*postScreen)
	assert.Equal(t, modeCompose, post.mode)
	assert.Contains(t, h.view(), "Comment cannot be empty")
	assert.Len(t, post.comments.Snapshot().Data, 2)
}

func TestCommentOwnershipControls(t *testing.T) {
	h := newHarness(t, resource.PostRoute(12), true)
	post := h.model.screen.(*postScreen)

	// first comment belongs to grace
	h.key("e")
	assert.Equal(t, modeBrowse, post.mode)
	h.key("d")
	assert.Equal(t, modeBrowse, post.mode)

	h.key("down")
	h.key("d")
	require.Equal(t, modeConfirmComment, post.mode)
	h.key("y")

	list := post.comments.Snapshot().Data
	require.Len(t, list, 1)
	assert.Equal(t, int64(11), list[0].ID)
}

func TestDeleteOwnPost(t *testing.T) {
	h := newHarness(t, resource.PostRoute(11), true)

	h.key("D")
	h.key("y")

	assert.Equal(t, []int64{11}, h.posts.deleted)
	assert.Equal(t, resource.RouteFeed, h.model.route)
	assert.Contains(t, h.view(), "Post deleted")
}

func TestCannotDeleteOthersPost(t *testing.T) {
	h := newHarness(t, resource.PostRoute(12), true)

	h.key("D")
	assert.Equal(t, modeBrowse, h.model.screen.(*postScreen).mode)
}

func TestCreatePost(t *testing.T) {
	h := newHarness(t, resource.RouteFeed, true)

	h.key("n")
	require.Equal(t, resource.RouteCreatePost, h.model.route)

	h.typeText("My title")
	h.key("tab")
	h.typeText("A body long enough to publish.")
	h.key("ctrl+s")

	assert.Equal(t, resource.PostRoute(13), h.model.route)
	assert.Contains(t, h.view(), "My title")
}

func TestCreatePostValidation(t *testing.T) {
	h := newHarness(t, resource.RouteCreatePost, true)

	h.typeText("Hi")
	h.key("ctrl+s")

	assert.Equal(t, resource.RouteCreatePost, h.model.route)
	out := h.view()
	assert.Contains(t, out, "Title must be at least 3 characters")
	assert.Contains(t, out, "Content is required")
}

func TestLogout(t *testing.T) {
	h := newHarness(t, resource.RouteFeed, true)

	h.key("ctrl+o")

	assert.Equal(t, 1, h.auth.logouts)
	assert.False(t, h.session.IsAuthenticated())
	assert.Equal(t, resource.RouteLogin, h.model.route)
}

func TestUnauthorizedRedirect(t *testing.T) {
	h := newHarness(t, resource.RouteFeed, true)

	resource.UnauthorizedHandler(h.session, h.router)()
	h.send(refreshMsg{})

	assert.False(t, h.session.IsAuthenticated())
	assert.Equal(t, resource.RouteLogin, h.model.route)
}

func TestQuit(t *testing.T) {
	h := newHarness(t, resource.RouteHome, false)

	_, cmd := h.model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, h.view())
}

func TestRouterScroll(t *testing.T) {
	r := NewRouter(resource.RouteHome)
	assert.False(t, r.takeScroll())
	r.ScrollToTop()
	assert.True(t, r.takeScroll())
	assert.False(t, r.takeScroll())

	r.Navigate(resource.RouteFeed)
	assert.Equal(t, resource.RouteFeed, r.Current())
	assert.True(t, strings.HasPrefix(string(resource.PostRoute(3)), "/posts/"))
}
