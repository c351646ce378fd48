// Package stub provides a fixed ingestion.Source for tests.
package stub

import (
	"context"
	"sync/atomic"

	"base-signal-radar/internal/domain"
)

// Source returns fixed records or a fixed error.
// Implements ingestion.Source and feed.Source.
type Source struct {
	SourceName string
	Records    []domain.SignalRecord
	Err        error

	calls atomic.Int32
}

// NewSource creates a stub source returning records.
func NewSource(name string, records []domain.SignalRecord) *Source {
	return &Source{SourceName: name, Records: records}
}

// NewFailingSource creates a stub source that always fails.
func NewFailingSource(name string, err error) *Source {
	return &Source{SourceName: name, Err: err}
}

// Name returns the configured name.
func (s *Source) Name() string { return s.SourceName }

// Fetch returns a copy of the configured records.
func (s *Source) Fetch(_ context.Context) ([]domain.SignalRecord, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]domain.SignalRecord(nil), s.Records...), nil
}

// Calls returns how many times Fetch was invoked.
func (s *Source) Calls() int {
	return int(s.calls.Load())
}
