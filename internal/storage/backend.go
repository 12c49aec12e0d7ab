// Package storage persists flavornet's graphs, mapping tables and embedding
// spaces.
//
// It defines the StorageBackend protocol, a key-value store every
// implementation must satisfy, and a Repository that maps domain objects
// onto keys.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotInitialized is returned when the backend has not been opened.
	ErrNotInitialized = errors.New("storage not initialized")
)

// Entry is one key-value pair.
type Entry struct {
	Key   string
	Value []byte
}

// StorageBackend defines the interface for storage implementations.
//
// Implementations must be thread-safe and support concurrent access.
type StorageBackend interface {
	// Lifecycle methods

	// Initialize opens or creates the storage backend at the given path.
	// If readOnly is true, the backend is opened in read-only mode.
	Initialize(path string, readOnly bool) error

	// Close releases all resources held by the backend.
	Close() error

	// Writes

	// Put stores one value, replacing any previous one.
	Put(ctx context.Context, key string, value []byte) error

	// PutBatch stores many values in one batch.
	PutBatch(ctx context.Context, entries []Entry) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key with the prefix and returns how many
	// were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Reads

	// Get returns the value of key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Keys returns the sorted keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
