package resource

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/scribe/internal/domain"
	"github.com/felixgeelhaar/scribe/internal/errors"
	"github.com/felixgeelhaar/scribe/internal/log"
)

// AuthView is the state of the login and register forms
type AuthView struct {
	IsLoading bool
	Err       string
	Cause     error
}

// Auth signs users in and out on top of the session store
type Auth struct {
	svc     AuthService
	session SessionStore
	nav     Navigator
	logger  *log.Logger

	mu    sync.Mutex
	state AuthView
}

// NewAuth creates the auth orchestration
func NewAuth(svc AuthService, session SessionStore, nav Navigator, logger *log.Logger) *Auth {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Auth{svc: svc, session: session, nav: nav, logger: logger}
}

// Login signs in, stores the session and opens the feed.
// On failure the session is untouched and the error returned.
func (a *Auth) Login(ctx context.Context, req domain.LoginRequest) error {
	return a.authenticate(ctx, func(ctx context.Context) (domain.AuthData, error) {
		return a.svc.Login(ctx, req)
	})
}

// Register creates an account, stores the session and opens the feed
func (a *Auth) Register(ctx context.Context, req domain.RegisterRequest) error {
	return a.authenticate(ctx, func(ctx context.Context) (domain.AuthData, error) {
		return a.svc.Register(ctx, req)
	})
}

func (a *Auth) authenticate(ctx context.Context, fn func(context.Context) (domain.AuthData, error)) error {
	a.set(AuthView{IsLoading: true})

	data, err := fn(ctx)
	if err == nil {
		err = a.session.SetAuth(data.User, data.Token)
	}
	if err != nil {
		a.set(AuthView{Err: errors.Message(err), Cause: err})
		return err
	}

	a.set(AuthView{})
	if a.nav != nil {
		a.nav.Navigate(RouteFeed)
	}
	return nil
}

// Logout revokes the token remotely and always clears the local session,
// even when the API cannot be reached
func (a *Auth) Logout(ctx context.Context) {
	if err := a.svc.Logout(ctx); err != nil {
		a.logger.WithError(err).Warn("remote logout failed, clearing local session anyway")
	}
	a.session.ClearAuth()
	if a.nav != nil {
		a.nav.Navigate(RouteLogin)
	}
}

// ClearError dismisses the last failure
func (a *Auth) ClearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Err = ""
	a.state.Cause = nil
}

// Snapshot returns the current form state
func (a *Auth) Snapshot() AuthView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *Auth) set(v AuthView) {
	a.mu.Lock()
	a.state = v
	a.mu.Unlock()
}
