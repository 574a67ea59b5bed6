package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned by KeyValueStore.Get for a missing key.
var ErrNotFound = errors.New("key not found")

// KeyValueStore is a flat string store, the server-side stand-in for browser
// local storage.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
