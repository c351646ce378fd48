// Package deepscan runs on-demand forensic checks against a single
// contract address and folds them into an auxiliary score.
package deepscan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/big"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"base-signal-radar/internal/classify"
	"base-signal-radar/internal/config"
	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/evm"
	"base-signal-radar/internal/explorer"
	"base-signal-radar/internal/observability"
	"base-signal-radar/internal/scoring"
)

var (
	// ErrInvalidAddress is returned for a missing or malformed contract address.
	ErrInvalidAddress = errors.New("invalid contract address")
	// ErrAllLookupsFailed is returned when no lookup produced data.
	ErrAllLookupsFailed = errors.New("all deep-scan lookups failed")
)

// Lookup names one of the five independent checks.
type Lookup string

const (
	LookupSourceCode     Lookup = "source_code"
	LookupRecentTxs      Lookup = "recent_transactions"
	LookupTokenTransfers Lookup = "token_transfers"
	LookupBalance        Lookup = "balance"
	LookupBytecode       Lookup = "bytecode"
)

// Lookups returns all lookups in result order.
func Lookups() []Lookup {
	return []Lookup{LookupSourceCode, LookupRecentTxs, LookupTokenTransfers, LookupBalance, LookupBytecode}
}

// Thresholds.
const (
	MinRecentTxs          = 5
	NewContractMaxMinutes = 10
	MatureContractMinutes = 1440
	balancePlaces         = 4
)

// PartialFailureFlag is appended once when some lookups failed.
const PartialFailureFlag = "Scan partially failed"

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Options contains configuration for creating an Aggregator.
type Options struct {
	RPC      evm.RPCClient
	Explorer explorer.Client
	Config   config.DeepScanConfig
	Now      func() time.Time
	Logger   *log.Logger
}

// Aggregator runs deep scans. Safe for concurrent use.
type Aggregator struct {
	rpc      evm.RPCClient
	explorer explorer.Client
	cfg      config.DeepScanConfig
	now      func() time.Time
	logger   *log.Logger
}

// New creates an Aggregator. A zero Config takes config.Default().DeepScan;
// otherwise unset limits take their defaults and the wash-trading threshold
// is used as given.
func New(opts Options) *Aggregator {
	def := config.Default().DeepScan
	cfg := opts.Config
	if cfg == (config.DeepScanConfig{}) {
		cfg = def
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = def.LookupTimeout
	}
	if cfg.RecentTxLimit <= 0 {
		cfg.RecentTxLimit = def.RecentTxLimit
	}
	if cfg.TokenTxLimit <= 0 {
		cfg.TokenTxLimit = def.TokenTxLimit
	}
	if cfg.WashTradingThreshold < 0 {
		cfg.WashTradingThreshold = def.WashTradingThreshold
	}

	a := &Aggregator{
		rpc:      opts.RPC,
		explorer: opts.Explorer,
		cfg:      cfg,
		now:      opts.Now,
		logger:   opts.Logger,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard, "", 0)
	}
	return a
}

// findings is the contribution of one lookup.
type findings struct {
	flags     []string
	positives []string
	details   map[string]any
}

func (f *findings) flag(s string)     { f.flags = append(f.flags, s) }
func (f *findings) positive(s string) { f.positives = append(f.positives, s) }

// Scan runs all lookups concurrently and composes the result.
func (a *Aggregator) Scan(ctx context.Context, req domain.DeepScanRequest) (*domain.DeepScanResult, error) {
	address := strings.TrimSpace(req.ContractAddress)
	if !addressPattern.MatchString(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, req.ContractAddress)
	}

	start := a.now()
	lookups := Lookups()
	results := make([]findings, len(lookups))
	errs := make([]error, len(lookups))

	var g errgroup.Group
	for i, l := range lookups {
		i, l := i, l
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(ctx, a.cfg.LookupTimeout)
			defer cancel()
			results[i], errs[i] = a.run(lctx, l, address)
			observability.RecordLookup(string(l), errs[i])
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &domain.DeepScanResult{
		Flags:     []string{},
		Positives: []string{},
		RawDetails: map[string]any{
			"pair":            req.PairLabel,
			"contractAddress": address,
			"timestamp":       start.UnixMilli(),
		},
	}

	for i, f := range results {
		if errs[i] != nil {
			a.logger.Printf("lookup %s for %s failed: %v", lookups[i], address, errs[i])
			res.FailedLookups = append(res.FailedLookups, string(lookups[i]))
			continue
		}
		res.Flags = append(res.Flags, f.flags...)
		res.Positives = append(res.Positives, f.positives...)
		for k, v := range f.details {
			res.RawDetails[k] = v
		}
	}

	outcome := "complete"
	switch len(res.FailedLookups) {
	case 0:
	case len(lookups):
		observability.RecordDeepScan("failed", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %w", ErrAllLookupsFailed, errors.Join(errs...))
	default:
		outcome = "partial"
		res.Partial = true
		res.Flags = append(res.Flags, PartialFailureFlag)
	}

	res.AuxScore = scoring.AuxScore(len(res.Flags), len(res.Positives))
	res.Tier = classify.TierForScore(res.AuxScore)

	observability.RecordDeepScan(outcome, time.Since(start).Seconds())
	return res, nil
}

// run dispatches one lookup.
func (a *Aggregator) run(ctx context.Context, l Lookup, address string) (findings, error) {
	switch l {
	case LookupSourceCode:
		return a.sourceCode(ctx, address)
	case LookupRecentTxs:
		return a.recentTxs(ctx, address)
	case LookupTokenTransfers:
		return a.tokenTransfers(ctx, address)
	case LookupBalance:
		return a.balance(ctx, address)
	case LookupBytecode:
		return a.bytecode(ctx, address)
	}
	return findings{}, fmt.Errorf("unknown lookup %q", l)
}

func (a *Aggregator) sourceCode(ctx context.Context, address string) (findings, error) {
	src, err := a.explorer.GetSourceCode(ctx, address)
	if err != nil {
		return findings{}, err
	}
	f := findings{details: map[string]any{
		"contractVerified": src.Verified(),
		"contractName":     orUnknown(src.ContractName),
		"compiler":         orUnknown(src.CompilerVersion),
	}}
	if src.Verified() {
		f.positive("Contract source verified on explorer")
	} else {
		f.flag("Contract source NOT verified")
	}
	return f, nil
}

// recentTxs also derives contract age from the oldest returned transaction.
func (a *Aggregator) recentTxs(ctx context.Context, address string) (findings, error) {
	txs, err := a.explorer.TxList(ctx, address, explorer.ListOpts{
		Sort:   explorer.SortDesc,
		Page:   1,
		Offset: a.cfg.RecentTxLimit,
	})
	if err != nil {
		return findings{}, err
	}

	f := findings{details: map[string]any{"recentTxCount": len(txs)}}
	if len(txs) < MinRecentTxs {
		f.flag("Very few transactions")
	} else {
		f.positive(fmt.Sprintf("%d recent transactions", len(txs)))
	}

	if len(txs) > 0 {
		if oldest, ok := txs[len(txs)-1].Time(); ok {
			minutes := int64(a.now().Sub(oldest) / time.Minute)
			if minutes < 0 {
				minutes = 0
			}
			age := FormatAge(minutes)
			f.details["ageMinutes"] = minutes
			f.details["age"] = age
			switch {
			case minutes < NewContractMaxMinutes:
				f.flag("Very new contract, only " + age + " old")
			case minutes > MatureContractMinutes:
				f.positive("Contract is " + age + " old")
			}
		}
	}
	return f, nil
}

func (a *Aggregator) tokenTransfers(ctx context.Context, address string) (findings, error) {
	txs, err := a.explorer.TokenTxList(ctx, address, explorer.ListOpts{
		Sort:   explorer.SortDesc,
		Page:   1,
		Offset: a.cfg.TokenTxLimit,
	})
	if err != nil {
		return findings{}, err
	}

	circular := CircularAddresses(txs)
	f := findings{details: map[string]any{
		"tokenTxCount":      len(txs),
		"circularAddresses": circular,
	}}
	if circular > a.cfg.WashTradingThreshold {
		f.flag(fmt.Sprintf("Possible wash trading (%d circular addresses)", circular))
	}
	return f, nil
}

func (a *Aggregator) balance(ctx context.Context, address string) (findings, error) {
	wei, err := a.rpc.GetBalance(ctx, address)
	if err != nil {
		return findings{}, err
	}
	if wei == nil {
		wei = new(big.Int)
	}

	f := findings{details: map[string]any{
		"balance": evm.WeiToEther(wei, balancePlaces) + " ETH",
	}}
	if wei.Sign() == 0 {
		f.flag("Zero ETH balance")
	}
	return f, nil
}

func (a *Aggregator) bytecode(ctx context.Context, address string) (findings, error) {
	code, err := a.rpc.GetCode(ctx, address)
	if err != nil {
		return findings{}, err
	}

	hasCode := evm.HasCode(code)
	f := findings{details: map[string]any{"hasCode": hasCode}}
	if hasCode {
		f.positive("Contract code present onchain")
	} else {
		f.flag("No contract code found")
	}
	return f, nil
}

// CircularAddresses counts distinct addresses that appear both as a
// sender and as a receiver, compared lower-cased.
func CircularAddresses(txs []explorer.TokenTx) int {
	senders := make(map[string]struct{}, len(txs))
	receivers := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if from := strings.ToLower(tx.From); from != "" {
			senders[from] = struct{}{}
		}
		if to := strings.ToLower(tx.To); to != "" {
			receivers[to] = struct{}{}
		}
	}

	n := 0
	for addr := range senders {
		if _, ok := receivers[addr]; ok {
			n++
		}
	}
	return n
}

// FormatAge renders minutes as "Xm", "Xh" or "Xd", truncating.
func FormatAge(minutes int64) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm", minutes)
	case minutes < 1440:
		return fmt.Sprintf("%dh", minutes/60)
	default:
		return fmt.Sprintf("%dd", minutes/1440)
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
