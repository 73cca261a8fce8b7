package interfaces

import "context"

// KVStore is the durable key-value surface. Values are opaque bytes
// addressed by fixed string keys; every Set is a whole-value overwrite.
type KVStore interface {
	// Get returns the value stored under key. A missing key returns
	// (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set overwrites the value stored under key
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Close releases backend resources
	Close() error
}
