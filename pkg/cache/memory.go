package cache

import (
	"context"
	"sync"

	"github.com/OpenTraceLab/kipart/pkg/parts"
)

// MemoryStore is a simple in-memory implementation useful during tests or
// for dry runs that must not touch the on-disk cache.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (Entry, bool, error) {
	key, err := NormalizeKey(id)
	if err != nil {
		return Entry{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return Entry{}, false, nil
	}
	return cloneEntry(e), true, nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, id string, e Entry) error {
	key, err := NormalizeKey(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = cloneEntry(e)
	return nil
}

// Len returns the number of cached entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func cloneEntry(e Entry) Entry {
	if e.Pins != nil {
		e.Pins = append([]parts.Pin(nil), e.Pins...)
	}
	return e
}
