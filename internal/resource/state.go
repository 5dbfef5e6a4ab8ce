// Package resource holds the per-view state machines over the API services:
// loading, error and data for posts, a single post, comments and auth.
package resource

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
)

// State is what a view renders: the data, whether a fetch is in flight and
// the message of the last failure
type State[T any] struct {
	Data      T
	IsLoading bool
	Err       string

	// Cause is the error behind Err, kept for exit codes and logging
	Cause error
}

// PostLister fetches pages of posts
type PostLister interface {
	GetAll(ctx context.Context, page, perPage int) (domain.Page[domain.Post], error)
}

// PostGetter fetches a single post
type PostGetter interface {
	GetByID(ctx context.Context, id int64) (domain.Post, error)
}

// CommentService is the comment API used by Comments
type CommentService interface {
	GetByPost(ctx context.Context, postID int64) (domain.Page[domain.Comment], error)
	Create(ctx context.Context, req domain.CreateCommentRequest) (domain.Comment, error)
	Update(ctx context.Context, id int64, req domain.UpdateCommentRequest) (domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}

// AuthService is the auth API used by Auth
type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthData, error)
	Login(ctx context.Context, req domain.LoginRequest) (domain.AuthData, error)
	Logout(ctx context.Context) error
}

// SessionStore is the part of session.Store the hooks mutate
type SessionStore interface {
	SetAuth(user domain.User, token string) error
	ClearAuth()
}

// fetcher tags every fetch with an increasing id and drops completions
// that are no longer the latest
type fetcher[T any] struct {
	mu       sync.Mutex
	state    State[T]
	seq      uint64
	onChange func()
}

func newFetcher[T any](onChange func()) *fetcher[T] {
	return &fetcher[T]{
		state:    State[T]{IsLoading: true},
		onChange: onChange,
	}
}

// run performs fn as the newest fetch. It reports whether the result was
// applied.
func (f *fetcher[T]) run(ctx context.Context, fn func(context.Context) (T, error)) (bool, error) {
	f.mu.Lock()
	f.seq++
	id := f.seq
	f.state.IsLoading = true
	f.state.Err = ""
	f.state.Cause = nil
	f.mu.Unlock()
	f.changed()

	data, err := fn(ctx)

	f.mu.Lock()
	if id != f.seq {
		f.mu.Unlock()
		return false, err
	}
	f.state.IsLoading = false
	if err != nil {
		f.state.Err = errors.Message(err)
		f.state.Cause = err
	} else {
		f.state.Data = data
	}
	f.mu.Unlock()
	f.changed()

	return true, err
}

// update edits the data under the lock
func (f *fetcher[T]) update(fn func(*State[T])) {
	f.mu.Lock()
	fn(&f.state)
	f.mu.Unlock()
	f.changed()
}

// fail records a mutation failure without touching the data
func (f *fetcher[T]) fail(err error) {
	f.update(func(s *State[T]) {
		s.Err = errors.Message(err)
		s.Cause = err
	})
}

func (f *fetcher[T]) snapshot() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fetcher[T]) changed() {
	if f.onChange != nil {
		f.onChange()
	}
}
