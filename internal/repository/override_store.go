package repository

import (
	"sync"

	"kvt-storefront/internal/model"
)

// OverrideStore holds the staff-entered price adjustments, keyed by price
// record id. It lives for the process lifetime; records themselves are
// recomposed on every fetch and only the overrides persist. Each store is an
// injected instance so tests get isolated state.
type OverrideStore struct {
	mu      sync.RWMutex
	entries map[string]*model.OverrideEntry
}

func NewOverrideStore() *OverrideStore {
	return &OverrideStore{entries: make(map[string]*model.OverrideEntry)}
}

// Set merges the non-nil fields of in into the entry for id, creating the
// entry if needed. Nil fields never clear previously set values; the merge
// from one call is applied atomically.
func (s *OverrideStore) Set(id string, in model.OverrideEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		entry = &model.OverrideEntry{}
		s.entries[id] = entry
	}
	entry.Merge(in)
}

// Get returns a copy of the entry for id, or ok=false when no override has
// ever been set for it.
func (s *OverrideStore) Get(id string) (model.OverrideEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return model.OverrideEntry{}, false
	}
	return *entry, true
}

// All returns a snapshot of every entry.
func (s *OverrideStore) All() map[string]model.OverrideEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]model.OverrideEntry, len(s.entries))
	for id, entry := range s.entries {
		out[id] = *entry
	}
	return out
}
