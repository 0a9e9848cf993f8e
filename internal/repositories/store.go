// package repositories provides persistence for the track catalog.
package repositories

import (
	"context"
	"sync"
)

// Store is a string key/value store with single-operation durability per key.
type Store interface {
	GetItem(ctx context.Context, key string) (string, bool, error) // GetItem returns the value and whether the key exists
	SetItem(ctx context.Context, key, value string) error          // SetItem overwrites the value for key
	RemoveItem(ctx context.Context, key string) error              // RemoveItem deletes key; absent keys are not an error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// MemoryStore implements [Store] with an in-process map.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[string]string
	writes int
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]string)}
}

func (s *MemoryStore) GetItem(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *MemoryStore) SetItem(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	s.writes++
	return nil
}

func (s *MemoryStore) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	s.writes++
	return nil
}

// Writes counts SetItem and RemoveItem calls.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
