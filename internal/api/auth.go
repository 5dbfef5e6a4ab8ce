package api

import (
	"context"
	"net/http"

	"github.com/felixgeelhaar/scribe/internal/domain"
)

// AuthService covers registration and sign-in
type AuthService struct {
	doer Doer
}

// NewAuthService creates an AuthService
func NewAuthService(d Doer) *AuthService {
	return &AuthService{doer: d}
}

// Register creates an account and returns its first token
func (s *AuthService) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthData, error) {
	return call[domain.AuthData](ctx, s.doer, http.MethodPost, "/register", nil, req)
}

// Login exchanges credentials for a token
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (domain.AuthData, error) {
	return call[domain.AuthData](ctx, s.doer, http.MethodPost, "/login", nil, req)
}

// Logout revokes the current token
func (s *AuthService) Logout(ctx context.Context) error {
	return send(ctx, s.doer, http.MethodPost, "/logout", nil)
}
