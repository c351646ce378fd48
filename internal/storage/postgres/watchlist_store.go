package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/storage"
)

// WatchlistStore implements storage.WatchlistStore using PostgreSQL.
type WatchlistStore struct {
	pool *Pool
}

// NewWatchlistStore creates a new WatchlistStore.
func NewWatchlistStore(pool *Pool) *WatchlistStore {
	return &WatchlistStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WatchlistStore = (*WatchlistStore)(nil)

// Upsert inserts or replaces the entry for e.PairID.
func (s *WatchlistStore) Upsert(ctx context.Context, e *domain.WatchEntry) (err error) {
	if e == nil || e.PairID == "" {
		return storage.ErrInvalidInput
	}
	defer func(start time.Time) { observe("watchlist_upsert", start, err) }(time.Now())

	query := `
		INSERT INTO watchlist (pair_id, tracked, alert, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (pair_id) DO UPDATE SET
			tracked = EXCLUDED.tracked,
			alert = EXCLUDED.alert,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.pool.Exec(ctx, query, e.PairID, e.Tracked, e.Alert, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert watchlist entry: %w", err)
	}
	return nil
}

// Patch applies a partial update in a single statement.
func (s *WatchlistStore) Patch(ctx context.Context, pairID string, p domain.WatchPatch) (_ *domain.WatchEntry, err error) {
	if pairID == "" || p.Empty() {
		return nil, storage.ErrInvalidInput
	}
	defer func(start time.Time) { observe("watchlist_patch", start, err) }(time.Now())

	query := `
		INSERT INTO watchlist (pair_id, tracked, alert, updated_at)
		VALUES ($1, COALESCE($2::boolean, FALSE), COALESCE($3::boolean, FALSE), $4)
		ON CONFLICT (pair_id) DO UPDATE SET
			tracked = COALESCE($2::boolean, watchlist.tracked),
			alert = COALESCE($3::boolean, watchlist.alert),
			updated_at = EXCLUDED.updated_at
		RETURNING pair_id, tracked, alert, updated_at
	`

	e, err := scanWatchEntry(s.pool.QueryRow(ctx, query, pairID, p.Tracked, p.Alert, p.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("patch watchlist entry: %w", err)
	}
	return e, nil
}

// Get retrieves the entry for a pair. Returns ErrNotFound if not exists.
func (s *WatchlistStore) Get(ctx context.Context, pairID string) (_ *domain.WatchEntry, err error) {
	defer func(start time.Time) { observe("watchlist_get", start, err) }(time.Now())

	query := `
		SELECT pair_id, tracked, alert, updated_at
		FROM watchlist
		WHERE pair_id = $1
	`

	e, err := scanWatchEntry(s.pool.QueryRow(ctx, query, pairID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get watchlist entry: %w", err)
	}
	return e, nil
}

// List returns all entries ordered by pair id ASC.
func (s *WatchlistStore) List(ctx context.Context) (_ []*domain.WatchEntry, err error) {
	defer func(start time.Time) { observe("watchlist_list", start, err) }(time.Now())

	query := `
		SELECT pair_id, tracked, alert, updated_at
		FROM watchlist
		ORDER BY pair_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.WatchEntry, 0)
	for rows.Next() {
		e, err := scanWatchEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watchlist: %w", err)
	}
	return result, nil
}

// Delete removes the entry for a pair. Returns ErrNotFound if not exists.
func (s *WatchlistStore) Delete(ctx context.Context, pairID string) (err error) {
	defer func(start time.Time) { observe("watchlist_delete", start, err) }(time.Now())

	tag, err := s.pool.Exec(ctx, `DELETE FROM watchlist WHERE pair_id = $1`, pairID)
	if err != nil {
		return fmt.Errorf("delete watchlist entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanWatchEntry scans a single row into WatchEntry.
func scanWatchEntry(row pgx.Row) (*domain.WatchEntry, error) {
	var e domain.WatchEntry
	if err := row.Scan(&e.PairID, &e.Tracked, &e.Alert, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
