// Package metadata is the client's small key-value store. It keeps the
// persisted session and other per-installation settings.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns common.ErrorNotFound when key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	// List returns all pairs whose key starts with prefix.
	List(ctx context.Context, prefix string) (map[string]string, error)
	Clear(ctx context.Context) error
}
