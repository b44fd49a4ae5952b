package cachestore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a cache entry does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction over named byte blobs used for cache persistence.
//
// The engine stores two kinds of entries: normalized gallery records
// ("galleries/<id>.json") and posting lists ("nozomi/<name>.nozomi").
// Entries are whole-value reads and writes; there is no partial I/O.
type Store interface {
	// Get returns the full contents of the named entry.
	Get(ctx context.Context, name string) ([]byte, error)

	// Put writes an entry atomically, replacing any previous contents.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes an entry. Deleting a missing entry is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all entries with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
