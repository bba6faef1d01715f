package kv

import (
	"fmt"
	"io"
)

// Reader defines the read-only lookup interface served over HTTP.
// Implementations of this interface can be swapped out,
// allowing for different storage backends (e.g., SQLite, bbolt, PostgreSQL).
type Reader interface {
	// Probe runs a minimal read to check that the store is reachable.
	// An empty store is still reachable; only engine failures are errors.
	Probe() error

	// Get retrieves the value associated with the given key.
	// Returns the value and true if the key exists, or empty string and false if not.
	// The error is non-nil only when the store itself failed.
	Get(key string) (string, bool, error)
}

// Provider is a Reader backed by an open store connection.
type Provider interface {
	Reader
	io.Closer
}

// StoreError reports a failure of the underlying store engine.
type StoreError struct {
	Op  string // "probe" or "get"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
