package store

import (
	"sync"

	"github.com/heysubinoy/kvlookup/pkg/kv"
)

// Accessor serializes every query against a single Provider.
// The provider's connection is not assumed to be safe for concurrent use,
// so at most one Probe or Get runs at a time across all callers.
type Accessor struct {
	mu       sync.Mutex
	provider kv.Provider
}

// Compile-time check to ensure Accessor implements kv.Reader.
var _ kv.Reader = (*Accessor)(nil)

// NewAccessor wraps provider with exclusive-access locking.
func NewAccessor(provider kv.Provider) *Accessor {
	return &Accessor{provider: provider}
}

// Probe checks that the store can be queried.
func (a *Accessor) Probe() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.provider.Probe(); err != nil {
		return &kv.StoreError{Op: "probe", Err: err}
	}
	return nil
}

// Get looks up key. A missing key is reported through the bool, not the error.
func (a *Accessor) Get(key string) (string, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	value, found, err := a.provider.Get(key)
	if err != nil {
		return "", false, &kv.StoreError{Op: "get", Err: err}
	}
	return value, found, nil
}

// Close closes the underlying provider once no query is in flight.
func (a *Accessor) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.provider.Close()
}
