package store

import (
	"sync"

	"github.com/heysubinoy/kvlookup/pkg/kv"
)

// MemStore is an in-memory implementation of the kv.Provider interface.
// It is populated up front and is mainly used as a fixture.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]string
	err  error
}

// Compile-time check to ensure MemStore implements kv.Provider.
var _ kv.Provider = (*MemStore)(nil)

// NewMemStore creates a MemStore holding a copy of data.
func NewMemStore(data map[string]string) *MemStore {
	m := make(map[string]string, len(data))
	for k, v := range data {
		m[k] = v
	}
	return &MemStore{data: m}
}

// SetError makes every subsequent query fail with err. A nil err
// restores normal behaviour.
func (s *MemStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

// Probe reports the injected error, if any.
func (s *MemStore) Probe() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.err
}

// Get retrieves a value by key from the store.
func (s *MemStore) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.err != nil {
		return "", false, s.err
	}
	val, ok := s.data[key]
	return val, ok, nil
}

// Close is a no-op.
func (s *MemStore) Close() error {
	return nil
}
