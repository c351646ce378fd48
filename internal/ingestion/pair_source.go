package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/explorer"
	"base-signal-radar/internal/normalization"
	"base-signal-radar/internal/pairsearch"
)

// DefaultQueries are searched when none are configured.
var DefaultQueries = []string{"WETH base", "USDC base"}

// PairSearchSource discovers pairs through the pair-search API.
type PairSearchSource struct {
	searcher   pairsearch.Searcher
	explorer   explorer.Client
	normalizer *normalization.Normalizer
	queries    []string
	verify     bool
	limit      int
	logger     *log.Logger
}

// PairSearchSourceOptions contains configuration for creating a PairSearchSource.
type PairSearchSourceOptions struct {
	Searcher   pairsearch.Searcher
	Explorer   explorer.Client // required when Verify is set
	Normalizer *normalization.Normalizer
	Queries    []string
	// Verify checks base-token source verification on the explorer.
	Verify      bool
	Concurrency int
	Logger      *log.Logger
}

// NewPairSearchSource creates a new pair-search source.
func NewPairSearchSource(opts PairSearchSourceOptions) *PairSearchSource {
	s := &PairSearchSource{
		searcher:   opts.Searcher,
		explorer:   opts.Explorer,
		normalizer: opts.Normalizer,
		queries:    opts.Queries,
		verify:     opts.Verify && opts.Explorer != nil,
		limit:      opts.Concurrency,
		logger:     opts.Logger,
	}
	if len(s.queries) == 0 {
		s.queries = DefaultQueries
	}
	if s.limit <= 0 {
		s.limit = DefaultConcurrency
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	return s
}

// Name implements Source.
func (s *PairSearchSource) Name() string { return "pairsearch" }

// Fetch implements Source. It fails only when every query fails.
func (s *PairSearchSource) Fetch(ctx context.Context) ([]domain.SignalRecord, error) {
	var (
		pairs []pairsearch.Pair
		seen  = make(map[string]struct{})
		errs  []error
	)
	for _, q := range s.queries {
		found, err := s.searcher.Search(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Printf("search %q: %v", q, err)
			errs = append(errs, err)
			continue
		}
		for _, p := range found {
			key := strings.ToLower(p.PairAddress)
			if key != "" {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			pairs = append(pairs, p)
		}
	}
	if len(errs) == len(s.queries) {
		return nil, fmt.Errorf("pair search: %w", errors.Join(errs...))
	}

	records := make([]normalization.PairRecord, len(pairs))
	for i, p := range pairs {
		records[i] = normalization.PairRecord{Pair: p}
	}

	if s.verify {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.limit)
		for i := range records {
			i := i
			token := records[i].Pair.BaseToken.Address
			if token == "" {
				continue
			}
			g.Go(func() error {
				src, err := s.explorer.GetSourceCode(gctx, token)
				if err != nil {
					s.logger.Printf("source code %s: %v", token, err)
					return nil
				}
				verified := src.Verified()
				records[i].Enrichment = &normalization.Enrichment{ContractVerified: &verified}
				return nil
			})
		}
		g.Wait()
	}

	out := make([]domain.SignalRecord, 0, len(records))
	for _, r := range records {
		out = append(out, s.normalizer.NormalizePair(r))
	}
	return out, nil
}

var _ Source = (*PairSearchSource)(nil)
