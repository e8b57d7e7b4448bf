package core

import "context"

// Storage is the durable medium port: a string-keyed, string-valued blob
// store with no query capability. Adhering to this interface keeps the store
// engine independent of the underlying medium (directory of files, in-memory
// map, browser localStorage behind a bridge, ...).
//
// Writes are full-snapshot replacements; there are no partial writes.
type Storage interface {
	// Get returns the blob stored under key, or ErrKeyNotFound.
	Get(key string) (string, error)

	// Set replaces the blob stored under key.
	Set(key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(key string) error
}

// Watchable is implemented by storage adapters that can observe external
// writers, e.g. a second process sharing the same data directory. The pattern
// is a doublestar glob matched against storage keys.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
