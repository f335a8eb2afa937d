// internal/store/store.go
//
// Key-value persistence capability used for puzzle progress.
//
// Implementations:
//   - Memory (this package): map-backed, process lifetime only.
//   - SQLite (sqlite.go): durable, one row per key.
//   - Prefixed: namespaces another KV (one namespace per player).
//
// Every I/O failure is reported wrapped in ErrUnavailable so callers can
// treat storage problems as non-fatal with a single errors.Is check.

package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable marks a failed storage operation.
var ErrUnavailable = errors.New("storage unavailable")

// KV is an asynchronous-safe string key-value store.
type KV interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set creates or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

func unavailable(op, key string, err error) error {
	return fmt.Errorf("%w: %s %q: %v", ErrUnavailable, op, key, err)
}

// Open returns the backend named by kind ("sqlite" or "memory") and a
// function releasing it.
func Open(kind, path string) (KV, func() error, error) {
	switch kind {
	case "memory":
		return NewMemory(), func() error { return nil }, nil
	case "sqlite":
		db, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", kind)
	}
}
