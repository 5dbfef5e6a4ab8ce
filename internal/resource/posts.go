package resource

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/scribe/internal/domain"
)

// PostsView is the state of the feed
type PostsView struct {
	State[[]domain.Post]
	Meta *domain.PageMeta
	Page int
}

// Posts pages through the post collection. Only the current page is held.
type Posts struct {
	svc     PostLister
	nav     Navigator
	perPage int

	mu   sync.Mutex
	page int
	meta *domain.PageMeta

	fetch *fetcher[[]domain.Post]
}

// PostsOption configures Posts
type PostsOption func(*Posts)

// WithPerPage sets the page size; zero keeps the API default
func WithPerPage(n int) PostsOption {
	return func(p *Posts) {
		p.perPage = n
	}
}

// WithPostsListener is called after every state change
func WithPostsListener(fn func()) PostsOption {
	return func(p *Posts) {
		p.fetch.onChange = fn
	}
}

// NewPosts creates the feed state starting at initialPage
func NewPosts(svc PostLister, nav Navigator, initialPage int, opts ...PostsOption) *Posts {
	if initialPage < 1 {
		initialPage = 1
	}
	p := &Posts{
		svc:   svc,
		nav:   nav,
		page:  initialPage,
		fetch: newFetcher[[]domain.Post](nil),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load fetches the current page
func (p *Posts) Load(ctx context.Context) error {
	p.mu.Lock()
	page := p.page
	p.mu.Unlock()
	return p.load(ctx, page)
}

// Refetch reloads the current page
func (p *Posts) Refetch(ctx context.Context) error {
	return p.Load(ctx)
}

// GoToPage switches to page n, scrolls the view to the top and fetches it
func (p *Posts) GoToPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	p.mu.Lock()
	p.page = n
	p.mu.Unlock()

	if p.nav != nil {
		p.nav.ScrollToTop()
	}
	return p.load(ctx, n)
}

func (p *Posts) load(ctx context.Context, page int) error {
	var meta domain.PageMeta
	applied, err := p.fetch.run(ctx, func(ctx context.Context) ([]domain.Post, error) {
		res, err := p.svc.GetAll(ctx, page, p.perPage)
		if err != nil {
			return nil, err
		}
		meta = res.Meta
		if res.Data == nil {
			res.Data = []domain.Post{}
		}
		return res.Data, nil
	})

	if applied && err == nil {
		p.mu.Lock()
		p.meta = &meta
		p.mu.Unlock()
	}
	return err
}

// Page returns the page currently selected
func (p *Posts) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Snapshot returns the current feed state
func (p *Posts) Snapshot() PostsView {
	state := p.fetch.snapshot()

	p.mu.Lock()
	defer p.mu.Unlock()

	view := PostsView{State: state, Page: p.page}
	if p.meta != nil {
		m := *p.meta
		view.Meta = &m
	}
	return view
}

// Post holds a single post for the detail view
type Post struct {
	svc PostGetter

	mu sync.Mutex
	id int64

	fetch *fetcher[*domain.Post]
}

// NewPost creates the state for post id
func NewPost(svc PostGetter, id int64, onChange ...func()) *Post {
	var fn func()
	if len(onChange) > 0 {
		fn = onChange[0]
	}
	return &Post{svc: svc, id: id, fetch: newFetcher[*domain.Post](fn)}
}

// Load fetches the post
func (p *Post) Load(ctx context.Context) error {
	p.mu.Lock()
	id := p.id
	p.mu.Unlock()

	_, err := p.fetch.run(ctx, func(ctx context.Context) (*domain.Post, error) {
		post, err := p.svc.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &post, nil
	})
	return err
}

// SetID switches to another post and fetches it
func (p *Post) SetID(ctx context.Context, id int64) error {
	p.mu.Lock()
	p.id = id
	p.mu.Unlock()
	return p.Load(ctx)
}

// ID returns the post being shown
func (p *Post) ID() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.id
}

// Snapshot returns the current state
func (p *Post) Snapshot() State[*domain.Post] {
	s := p.fetch.snapshot()
	if s.Data != nil {
		cp := *s.Data
		s.Data = &cp
	}
	return s
}
