// Package stub provides an in-memory pairsearch.Searcher for tests.
package stub

import (
	"context"
	"sync"

	"base-signal-radar/internal/pairsearch"
)

// Searcher implements pairsearch.Searcher for testing.
type Searcher struct {
	mu sync.Mutex

	// Results maps query to pairs.
	Results map[string][]pairsearch.Pair
	// Err, when set, is returned by every call.
	Err error

	Queries []string
}

// NewSearcher creates a new stub searcher.
func NewSearcher() *Searcher {
	return &Searcher{Results: make(map[string][]pairsearch.Pair)}
}

// Search returns the stored pairs for query.
func (s *Searcher) Search(_ context.Context, query string) ([]pairsearch.Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Queries = append(s.Queries, query)
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]pairsearch.Pair(nil), s.Results[query]...), nil
}

var _ pairsearch.Searcher = (*Searcher)(nil)
