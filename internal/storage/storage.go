// Package storage persists the session key/value pairs that survive restarts.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/scribe/internal/errors"
)

// Keys used by the session store
const (
	KeyToken = "auth_token"
	KeyUser  = "auth_user"
)

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Storage is a small durable key/value store.
// Put and Delete apply all of their keys or none of them.
type Storage interface {
	Get(key string) (string, bool, error)
	Put(values map[string]string) error
	Delete(keys ...string) error
	Close() error
}

// DefaultPath returns the storage location for backend inside home
func DefaultPath(home, backend string) string {
	switch backend {
	case BackendSQLite:
		return filepath.Join(home, "session.db")
	default:
		return filepath.Join(home, "session.json")
	}
}

// Open returns the storage backend named by backend
func Open(backend, path string) (Storage, error) {
	switch strings.ToLower(backend) {
	case BackendFile, "":
		return NewFileStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.NewConfigInvalidError("storage.backend", backend,
			fmt.Sprintf("%s, %s, %s", BackendFile, BackendSQLite, BackendMemory))
	}
}
