package cache

import (
	"context"

	"github.com/thoreinstein/setup-vulkan-sdk/internal/errors"
	"github.com/thoreinstein/setup-vulkan-sdk/internal/logging"
)

// Bridge wraps a Store and reports failures as warnings.
type Bridge struct {
	store Store
}

// NewBridge wraps store.
func NewBridge(store Store) *Bridge {
	return &Bridge{store: store}
}

// Restore returns the matched key, or "" on a miss or failure.
func (b *Bridge) Restore(ctx context.Context, paths []string, primaryKey string, restoreKeys []string) string {
	logger := logging.FromContext(ctx)

	key, err := b.store.Restore(ctx, paths, primaryKey, restoreKeys)
	if err != nil {
		err = errors.Mark(err, errors.ErrCache)
		logger.Warn("cache restore failed, continuing without cache", "key", primaryKey, "err", err)
		return ""
	}
	if key == "" {
		logger.Info("cache miss", "key", primaryKey)
	}
	return key
}

// Save returns the entry id, or -1 on failure.
func (b *Bridge) Save(ctx context.Context, paths []string, key string) int64 {
	logger := logging.FromContext(ctx)

	id, err := b.store.Save(ctx, paths, key)
	if err != nil {
		err = errors.Mark(err, errors.ErrCache)
		logger.Warn("cache save failed", "key", key, "err", err)
		return -1
	}
	logger.Debug("cache saved", "key", key, "id", id)
	return id
}
