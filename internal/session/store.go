// Package session holds the client's authentication state and mirrors it to
// durable storage so it survives restarts.
package session

import (
	"encoding/json"
	"sync"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/log"
	"github.com/felixgeelhaar/scribe/internal/storage"
)

// Listener receives a copy of the session after every change
type Listener func(domain.Session)

// Store is the single source of truth for who is logged in.
// One Store is constructed per process and passed to whoever needs it.
type Store struct {
	mu      sync.Mutex
	storage storage.Storage
	state   domain.Session
	logger  *log.Logger

	listeners map[int]Listener
	nextID    int
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for storage failures
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a Store in the loading state. Call Hydrate to settle it.
func New(st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage:   st,
		state:     domain.Session{IsLoading: true},
		logger:    log.DefaultLogger(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate restores the session from storage. A complete, parseable record
// authenticates; anything else clears both keys and leaves the session
// anonymous. It never fails.
func (s *Store) Hydrate() {
	s.mu.Lock()
	next := s.hydrateLocked()
	s.state = next
	s.mu.Unlock()

	s.notify(next)
}

func (s *Store) hydrateLocked() domain.Session {
	token, hasToken, err := s.storage.Get(storage.KeyToken)
	if err != nil {
		s.logger.WithError(err).Warn("session token unreadable, starting signed out")
		s.discardLocked()
		return domain.AnonymousSession()
	}

	raw, hasUser, err := s.storage.Get(storage.KeyUser)
	if err != nil {
		s.logger.WithError(err).Warn("session user unreadable, starting signed out")
		s.discardLocked()
		return domain.AnonymousSession()
	}

	if !hasToken || !hasUser || token == "" || raw == "" {
		if hasToken || hasUser {
			s.logger.Debug("incomplete stored session discarded", "has_token", hasToken, "has_user", hasUser)
			s.discardLocked()
		}
		return domain.AnonymousSession()
	}

	user, err := decodeUser(raw)
	if err != nil {
		s.logger.With("error", err.Error()).Warn("stored user is corrupt, starting signed out")
		s.discardLocked()
		return domain.AnonymousSession()
	}

	s.logger.Debug("session restored", "user_id", user.ID)
	return domain.AuthenticatedSession(user, token)
}

func decodeUser(raw string) (domain.User, error) {
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return domain.User{}, err
	}
	if err := user.Validate(); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *Store) discardLocked() {
	if err := s.storage.Delete(storage.KeyToken, storage.KeyUser); err != nil {
		s.logger.WithError(err).Warn("failed to clear stored session")
	}
}

// SetAuth persists user and token, then marks the session authenticated.
// If persisting fails the in-memory session is unchanged.
func (s *Store) SetAuth(user domain.User, token string) error {
	if token == "" {
		return errors.New(errors.ErrCodeSessionPersist, "refusing to store an empty token")
	}
	// Hydrate discards records that fail Validate, so they are never written.
	if err := user.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeSessionPersist, "refusing to store an unusable user record", err)
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionPersist, "failed to encode user", err)
	}

	s.mu.Lock()
	if err := s.storage.Put(map[string]string{
		storage.KeyToken: token,
		storage.KeyUser:  string(raw),
	}); err != nil {
		s.mu.Unlock()
		return errors.Wrap(errors.ErrCodeSessionPersist, "failed to persist session", err)
	}
	s.state = domain.AuthenticatedSession(user, token)
	next := s.state.Clone()
	s.mu.Unlock()

	s.logger.Debug("session authenticated", "user_id", user.ID)
	s.notify(next)
	return nil
}

// ClearAuth removes the stored session and resets to anonymous.
// Memory is reset even when storage cannot be cleared.
func (s *Store) ClearAuth() {
	s.mu.Lock()
	s.discardLocked()
	s.state = domain.AnonymousSession()
	next := s.state
	s.mu.Unlock()

	s.logger.Debug("session cleared")
	s.notify(next)
}

// SetLoading sets only the loading flag
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	if s.state.IsLoading == loading {
		s.mu.Unlock()
		return
	}
	s.state.IsLoading = loading
	next := s.state.Clone()
	s.mu.Unlock()

	s.notify(next)
}

// Snapshot returns a copy of the current session
func (s *Store) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// User returns the signed-in user, or nil
func (s *Store) User() *domain.User {
	return s.Snapshot().User
}

// Token returns the in-memory token
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// IsAuthenticated reports whether a user is signed in
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.IsAuthenticated
}

// Subscribe registers fn for change notifications and returns a cancel func
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(state domain.Session) {
	s.mu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(state.Clone())
	}
}
