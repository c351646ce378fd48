package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/storage"
)

func TestWatchlistStore_UpsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewWatchlistStore(pool)

	entry := &domain.WatchEntry{PairID: "0xabc", Tracked: true, UpdatedAt: 1700000000000}
	require.NoError(t, store.Upsert(ctx, entry))

	got, err := store.Get(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, *entry, *got)

	// Upsert replaces flags
	entry.Tracked = false
	entry.Alert = true
	entry.UpdatedAt = 1700000005000
	require.NoError(t, store.Upsert(ctx, entry))

	got, err = store.Get(ctx, "0xabc")
	require.NoError(t, err)
	assert.False(t, got.Tracked)
	assert.True(t, got.Alert)
	assert.Equal(t, int64(1700000005000), got.UpdatedAt)
}

func TestWatchlistStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewWatchlistStore(pool)

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), storage.ErrNotFound)
}

func TestWatchlistStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWatchlistStore(pool)
	assert.ErrorIs(t, store.Upsert(context.Background(), &domain.WatchEntry{}), storage.ErrInvalidInput)
}

func TestWatchlistStore_ListAndDelete(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewWatchlistStore(pool)

	empty, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, id := range []string{"sample-7", "sample-3", "sample-5"} {
		require.NoError(t, store.Upsert(ctx, &domain.WatchEntry{PairID: id, Alert: true, UpdatedAt: 1}))
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "sample-3", list[0].PairID)
	assert.Equal(t, "sample-5", list[1].PairID)
	assert.Equal(t, "sample-7", list[2].PairID)

	require.NoError(t, store.Delete(ctx, "sample-5"))
	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func boolPtr(b bool) *bool { return &b }

func TestWatchlistStore_Patch(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewWatchlistStore(pool)

	got, err := store.Patch(ctx, "0xabc", domain.WatchPatch{Alert: boolPtr(true), UpdatedAt: 1})
	require.NoError(t, err)
	assert.Equal(t, domain.WatchEntry{PairID: "0xabc", Alert: true, UpdatedAt: 1}, *got)

	got, err = store.Patch(ctx, "0xabc", domain.WatchPatch{Tracked: boolPtr(true), UpdatedAt: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.WatchEntry{PairID: "0xabc", Tracked: true, Alert: true, UpdatedAt: 2}, *got)

	_, err = store.Patch(ctx, "0xabc", domain.WatchPatch{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestWatchlistStore_ConcurrentPatchesKeepBothFlags(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewWatchlistStore(pool)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("pair-%02d", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := store.Patch(ctx, id, domain.WatchPatch{Tracked: boolPtr(true)})
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := store.Patch(ctx, id, domain.WatchPatch{Alert: boolPtr(true)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 20)
	for _, e := range list {
		assert.True(t, e.Tracked && e.Alert, "entry %s lost a flag: %+v", e.PairID, e)
	}
}
