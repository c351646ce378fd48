// Package feed scores, classifies and orders signal records into the
// dashboard feed.
package feed

import (
	"context"
	"io"
	"log"
	"sort"
	"time"

	"base-signal-radar/internal/classify"
	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/observability"
	"base-signal-radar/internal/scoring"
)

// Source yields the current live snapshot.
type Source interface {
	Fetch(ctx context.Context) ([]domain.SignalRecord, error)
}

// Options contains configuration for creating an Assembler.
type Options struct {
	// Source may be nil, in which case every feed is the sample set.
	Source Source
	Engine *scoring.Engine
	Now    func() time.Time
	Logger *log.Logger
}

// Assembler builds feeds. It never fails: an unavailable or empty source
// yields the sample set tagged as mock.
type Assembler struct {
	source Source
	engine *scoring.Engine
	now    func() time.Time
	logger *log.Logger
}

// New creates an Assembler.
func New(opts Options) *Assembler {
	a := &Assembler{
		source: opts.Source,
		engine: opts.Engine,
		now:    opts.Now,
		logger: opts.Logger,
	}
	if a.engine == nil {
		a.engine = scoring.Default
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard, "", 0)
	}
	return a
}

// Build fetches, scores and orders the feed.
func (a *Assembler) Build(ctx context.Context) domain.Feed {
	start := time.Now()
	now := a.now()

	provenance := domain.ProvenanceLive
	records, err := a.fetch(ctx)
	if err != nil {
		a.logger.Printf("live source failed, serving samples: %v", err)
	}
	if len(records) == 0 {
		provenance = domain.ProvenanceMock
		records = Samples(now)
	}

	items := Assemble(records, a.engine)
	for _, it := range items {
		observability.RecordFeedItem(string(it.Tier), string(it.Anomaly))
	}
	observability.RecordFeedBuild(string(provenance), time.Since(start).Seconds(), now.Unix())

	return domain.Feed{
		Source:    provenance,
		Count:     len(items),
		Timestamp: now.UnixMilli(),
		Items:     items,
	}
}

func (a *Assembler) fetch(ctx context.Context) ([]domain.SignalRecord, error) {
	if a.source == nil {
		return nil, nil
	}
	return a.source.Fetch(ctx)
}

// Assemble scores and classifies records, ordered by ascending score
// (riskiest first) with ties broken by PairID.
func Assemble(records []domain.SignalRecord, engine *scoring.Engine) []domain.FeedItem {
	if engine == nil {
		engine = scoring.Default
	}
	items := make([]domain.FeedItem, len(records))
	for i, r := range records {
		score := engine.Score(r)
		items[i] = domain.FeedItem{
			SignalRecord: r,
			Score:        score,
			Tier:         classify.TierForScore(score),
			Anomaly:      classify.Anomaly(r),
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score < items[j].Score
		}
		return items[i].PairID < items[j].PairID
	})
	return items
}
