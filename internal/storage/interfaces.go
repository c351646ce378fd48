package storage

import (
	"context"

	"base-signal-radar/internal/domain"
)

// WatchlistStore persists per-pair tracking and alert flags.
// Pair ids are opaque; the store never interprets them.
type WatchlistStore interface {
	// Upsert inserts or replaces the entry for e.PairID.
	// Returns ErrInvalidInput if the entry is nil or has no pair id.
	Upsert(ctx context.Context, e *domain.WatchEntry) error

	// Patch applies a partial update atomically, creating the entry if it
	// does not exist, and returns the resulting entry.
	// Returns ErrInvalidInput if pairID is empty or the patch is empty.
	Patch(ctx context.Context, pairID string, p domain.WatchPatch) (*domain.WatchEntry, error)

	// Get retrieves the entry for a pair. Returns ErrNotFound if not exists.
	Get(ctx context.Context, pairID string) (*domain.WatchEntry, error)

	// List returns all entries ordered by pair id ASC.
	List(ctx context.Context) ([]*domain.WatchEntry, error)

	// Delete removes the entry for a pair. Returns ErrNotFound if not exists.
	Delete(ctx context.Context, pairID string) error
}
