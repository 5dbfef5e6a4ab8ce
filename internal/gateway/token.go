package gateway

import (
	"github.com/felixgeelhaar/scribe/internal/storage"
)

// TokenSource supplies the bearer token for each request and forgets it on 401
type TokenSource interface {
	Token() (string, error)
	ClearToken() error
}

// StoredToken reads the token from durable storage on every call, so every
// request site sees the same credential regardless of in-memory state
type StoredToken struct {
	Storage storage.Storage
}

// Token returns the stored token, or "" when none is stored
func (s StoredToken) Token() (string, error) {
	token, _, err := s.Storage.Get(storage.KeyToken)
	return token, err
}

// ClearToken removes the stored token
func (s StoredToken) ClearToken() error {
	return s.Storage.Delete(storage.KeyToken)
}
