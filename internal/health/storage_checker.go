package health

import (
	"context"

	"github.com/felixgeelhaar/scribe/internal/storage"
)

// StorageChecker reads the persisted session keys.
type StorageChecker struct {
	store storage.Storage
}

func NewStorageChecker(store storage.Storage) *StorageChecker {
	return &StorageChecker{store: store}
}

func (c *StorageChecker) Name() string { return "storage" }

func (c *StorageChecker) Check(ctx context.Context) *Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("check cancelled").WithDetail("error", err.Error())
	}
	_, hasToken, err := c.store.Get(storage.KeyToken)
	if err != nil {
		return Unhealthy("session storage unreadable").WithDetail("error", err.Error())
	}
	_, hasUser, err := c.store.Get(storage.KeyUser)
	if err != nil {
		return Unhealthy("session storage unreadable").WithDetail("error", err.Error())
	}
	if hasToken != hasUser {
		return Degraded("session storage holds a partial session").
			WithDetail("token", hasToken).
			WithDetail("user", hasUser)
	}
	return Healthy("session storage readable").WithDetail("session", hasToken)
}
