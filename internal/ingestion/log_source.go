package ingestion

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/evm"
	"base-signal-radar/internal/explorer"
	"base-signal-radar/internal/normalization"
)

// Defaults for LogSource.
const (
	DefaultLookbackBlocks = 1000
	DefaultMaxPools       = 8
	DefaultConcurrency    = 4
	// enrichTxLimit bounds the explorer page used to count daily activity.
	enrichTxLimit = 100
)

// LogSource discovers new pools from PoolCreated logs over a recent block
// window and resolves each into a signal record.
type LogSource struct {
	rpc        evm.RPCClient
	explorer   explorer.Client
	normalizer *normalization.Normalizer
	topic      string
	factories  []string
	lookback   uint64
	maxPools   int
	limit      int
	now        func() time.Time
	logger     *log.Logger
}

// LogSourceOptions contains configuration for creating a LogSource.
type LogSourceOptions struct {
	RPC        evm.RPCClient
	Explorer   explorer.Client // optional; enables verification and activity enrichment
	Normalizer *normalization.Normalizer
	Topic      string
	// Factories restricts logs to these emitters. Empty means any.
	Factories      []string
	LookbackBlocks uint64
	MaxPools       int
	Concurrency    int
	Now            func() time.Time
	Logger         *log.Logger
}

// NewLogSource creates a new log-based source.
func NewLogSource(opts LogSourceOptions) *LogSource {
	s := &LogSource{
		rpc:        opts.RPC,
		explorer:   opts.Explorer,
		normalizer: opts.Normalizer,
		topic:      opts.Topic,
		factories:  opts.Factories,
		lookback:   opts.LookbackBlocks,
		maxPools:   opts.MaxPools,
		limit:      opts.Concurrency,
		now:        opts.Now,
		logger:     opts.Logger,
	}
	if s.lookback == 0 {
		s.lookback = DefaultLookbackBlocks
	}
	if s.maxPools <= 0 {
		s.maxPools = DefaultMaxPools
	}
	if s.limit <= 0 {
		s.limit = DefaultConcurrency
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	return s
}

// Name implements Source.
func (s *LogSource) Name() string { return "logs" }

// Fetch implements Source.
func (s *LogSource) Fetch(ctx context.Context) ([]domain.SignalRecord, error) {
	head, err := s.rpc.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("block number: %w", err)
	}

	from := uint64(0)
	if head > s.lookback {
		from = head - s.lookback
	}

	logs, err := s.rpc.GetLogs(ctx, evm.LogFilter{
		FromBlock: from,
		Addresses: s.factories,
		Topic0:    []string{s.topic},
	})
	if err != nil {
		return nil, fmt.Errorf("get logs [%d, latest]: %w", from, err)
	}

	SortLogs(logs)
	logs = newest(logs, s.maxPools)

	triples := make([]normalization.LogTriple, len(logs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, l := range logs {
		i, l := i, l
		g.Go(func() error {
			triples[i] = s.resolve(gctx, l)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]domain.SignalRecord, 0, len(triples))
	for _, t := range triples {
		records = append(records, s.normalizer.NormalizeLog(t))
	}
	return records, nil
}

// resolve performs the per-log lookups. Failures leave fields absent.
func (s *LogSource) resolve(ctx context.Context, l evm.Log) normalization.LogTriple {
	t := normalization.LogTriple{Log: l}

	block, err := s.rpc.GetBlockByNumber(ctx, l.BlockNumber)
	if err != nil {
		s.logger.Printf("block %d: %v", l.BlockNumber, err)
	} else {
		t.Block = block
	}

	if l.TxHash != "" {
		tx, err := s.rpc.GetTransactionByHash(ctx, l.TxHash)
		if err != nil {
			s.logger.Printf("tx %s: %v", l.TxHash, err)
		} else {
			t.Tx = tx
		}
	}

	if s.explorer != nil && len(l.Topics) > 1 {
		if token, ok := evm.TopicToAddress(l.Topics[1]); ok {
			t.Enrichment = s.enrich(ctx, token)
		}
	}
	return t
}

// enrich asks the explorer about the pool's base token.
func (s *LogSource) enrich(ctx context.Context, token string) *normalization.Enrichment {
	e := &normalization.Enrichment{}

	src, err := s.explorer.GetSourceCode(ctx, token)
	if err != nil {
		s.logger.Printf("source code %s: %v", token, err)
	} else {
		verified := src.Verified()
		e.ContractVerified = &verified
	}

	txs, err := s.explorer.TxList(ctx, token, explorer.ListOpts{Sort: explorer.SortDesc, Page: 1, Offset: enrichTxLimit})
	if err != nil {
		s.logger.Printf("tx list %s: %v", token, err)
	} else {
		count := countSince(txs, s.now().Add(-24*time.Hour))
		e.TxCount24h = &count
	}
	return e
}

// countSince counts transactions at or after since.
func countSince(txs []explorer.Tx, since time.Time) int64 {
	var n int64
	for _, tx := range txs {
		if ts, ok := tx.Time(); ok && !ts.Before(since) {
			n++
		}
	}
	return n
}

var _ Source = (*LogSource)(nil)
