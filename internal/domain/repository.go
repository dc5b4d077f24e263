package domain

import "context"

// KeyValueStore is the persistence the session layer is built on.
// Get reports found=false for a missing key rather than an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
