package storage

import "context"

// Store is the durable key-value capability the state engine persists
// the registry through. Implementations must preserve the value bytes
// exactly; the engine treats them as opaque.
type Store interface {
	// Get returns the value stored under key. The second return is
	// false when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set durably stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}
