// Package memory provides in-memory storage implementations.
package memory

import (
	"context"
	"sort"
	"sync"

	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/storage"
)

// WatchlistStore is an in-memory implementation of storage.WatchlistStore.
type WatchlistStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.WatchEntry // keyed by pair id
}

// NewWatchlistStore creates a new in-memory watchlist store.
func NewWatchlistStore() *WatchlistStore {
	return &WatchlistStore{
		entries: make(map[string]*domain.WatchEntry),
	}
}

// Upsert inserts or replaces the entry for e.PairID.
func (s *WatchlistStore) Upsert(_ context.Context, e *domain.WatchEntry) error {
	if e == nil || e.PairID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entryCopy := *e
	s.entries[e.PairID] = &entryCopy
	return nil
}

// Patch applies a partial update under the write lock.
func (s *WatchlistStore) Patch(_ context.Context, pairID string, p domain.WatchPatch) (*domain.WatchEntry, error) {
	if pairID == "" || p.Empty() {
		return nil, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[pairID]
	if !exists {
		e = &domain.WatchEntry{PairID: pairID}
		s.entries[pairID] = e
	}
	if p.Tracked != nil {
		e.Tracked = *p.Tracked
	}
	if p.Alert != nil {
		e.Alert = *p.Alert
	}
	e.UpdatedAt = p.UpdatedAt

	entryCopy := *e
	return &entryCopy, nil
}

// Get retrieves the entry for a pair. Returns ErrNotFound if not exists.
func (s *WatchlistStore) Get(_ context.Context, pairID string) (*domain.WatchEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[pairID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	entryCopy := *e
	return &entryCopy, nil
}

// List returns all entries ordered by pair id ASC.
func (s *WatchlistStore) List(_ context.Context) ([]*domain.WatchEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.WatchEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entryCopy := *e
		result = append(result, &entryCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].PairID < result[j].PairID
	})
	return result, nil
}

// Delete removes the entry for a pair. Returns ErrNotFound if not exists.
func (s *WatchlistStore) Delete(_ context.Context, pairID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[pairID]; !exists {
		return storage.ErrNotFound
	}
	delete(s.entries, pairID)
	return nil
}

var _ storage.WatchlistStore = (*WatchlistStore)(nil)
