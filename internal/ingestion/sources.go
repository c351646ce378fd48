// Package ingestion fetches live upstream data and turns it into
// normalized signal records.
package ingestion

import (
	"context"
	"errors"
	"io"
	"log"

	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/observability"
)

// ErrNoSources is returned by FirstNonEmpty when it has nothing to try.
var ErrNoSources = errors.New("no sources configured")

// Source yields a fresh batch of normalized signal records.
type Source interface {
	// Name identifies the source in logs and metrics.
	Name() string
	// Fetch returns the current snapshot. An empty result is not an error.
	Fetch(ctx context.Context) ([]domain.SignalRecord, error)
}

// FirstNonEmpty tries sources in order and returns the first non-empty
// result. Failing sources are logged and skipped.
type FirstNonEmpty struct {
	sources []Source
	logger  *log.Logger
}

// NewFirstNonEmpty creates a combinator over sources. A nil logger discards.
func NewFirstNonEmpty(logger *log.Logger, sources ...Source) *FirstNonEmpty {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &FirstNonEmpty{sources: sources, logger: logger}
}

// Name implements Source.
func (f *FirstNonEmpty) Name() string { return "first-non-empty" }

// Fetch implements Source. When every source is empty the result is empty
// and the error is the last source failure, if any.
func (f *FirstNonEmpty) Fetch(ctx context.Context) ([]domain.SignalRecord, error) {
	if len(f.sources) == 0 {
		return nil, ErrNoSources
	}

	var lastErr error
	for _, s := range f.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := s.Fetch(ctx)
		if err != nil {
			observability.RecordSourceError(s.Name())
			f.logger.Printf("source %s failed: %v", s.Name(), err)
			lastErr = err
			continue
		}
		if len(records) == 0 {
			f.logger.Printf("source %s returned no records", s.Name())
			continue
		}
		f.logger.Printf("source %s returned %d records", s.Name(), len(records))
		return records, nil
	}
	return nil, lastErr
}

var _ Source = (*FirstNonEmpty)(nil)
