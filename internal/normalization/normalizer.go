package normalization

import (
	"fmt"
	"math"
	"strings"
	"time"

	"base-signal-radar/internal/config"
	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/evm"
	"base-signal-radar/internal/observability"
)

// Symbol placeholders for records without token metadata.
const (
	DefaultLogBaseSymbol  = "TOKEN0"
	DefaultLogQuoteSymbol = "TOKEN1"
	DefaultPairSymbol     = "UNKNOWN"
)

// Normalizer maps upstream records to SignalRecords. It never fails:
// every unusable field degrades to its default.
type Normalizer struct {
	factories map[string]string
	dexIDs    map[string]string
	deployers map[string]struct{}
	now       func() time.Time
}

// New creates a Normalizer from trust allow-lists and a clock.
// A nil clock uses time.Now.
func New(trust config.Trust, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	n := &Normalizer{
		factories: make(map[string]string, len(trust.Factories)),
		dexIDs:    make(map[string]string, len(trust.DexIDs)),
		deployers: make(map[string]struct{}, len(trust.KnownDeployers)),
		now:       now,
	}
	for k, v := range trust.Factories {
		n.factories[strings.ToLower(k)] = v
	}
	for k, v := range trust.DexIDs {
		n.dexIDs[strings.ToLower(k)] = v
	}
	for _, d := range trust.KnownDeployers {
		n.deployers[strings.ToLower(d)] = struct{}{}
	}
	return n
}

// Normalize dispatches on the upstream variant. A nil or unrecognized
// upstream yields an all-default record.
func (n *Normalizer) Normalize(u Upstream) domain.SignalRecord {
	switch v := u.(type) {
	case LogTriple:
		return n.NormalizeLog(v)
	case *LogTriple:
		if v != nil {
			return n.NormalizeLog(*v)
		}
	case PairRecord:
		return n.NormalizePair(v)
	case *PairRecord:
		if v != nil {
			return n.NormalizePair(*v)
		}
	}
	observability.RecordDropped("unrecognized_upstream")
	return n.defaulted()
}

// defaulted returns a record carrying only the missing-field defaults.
func (n *Normalizer) defaulted() domain.SignalRecord {
	rec := domain.SignalRecord{
		BaseSymbol:      DefaultPairSymbol,
		QuoteSymbol:     DefaultPairSymbol,
		AgeMinutes:      domain.DefaultAgeMinutes,
		ExchangeName:    domain.DefaultExchangeName,
		DeployerAddress: domain.DefaultDeployer,
	}
	rec.CreatedAtMs = n.now().UnixMilli() - rec.AgeMinutes*time.Minute.Milliseconds()
	return rec
}

// NormalizeLog builds a record from a PoolCreated log triple.
func (n *Normalizer) NormalizeLog(t LogTriple) domain.SignalRecord {
	now := n.now()
	rec := domain.SignalRecord{
		PairID:          logPairID(t.Log),
		BaseSymbol:      DefaultLogBaseSymbol,
		QuoteSymbol:     DefaultLogQuoteSymbol,
		AgeMinutes:      domain.DefaultAgeMinutes,
		ExchangeName:    domain.DefaultExchangeName,
		DeployerAddress: domain.DefaultDeployer,
	}

	if len(t.Log.Topics) > 1 {
		if addr, ok := evm.TopicToAddress(t.Log.Topics[1]); ok {
			rec.BaseSymbol = addressSymbol(addr)
		}
	}
	if len(t.Log.Topics) > 2 {
		if addr, ok := evm.TopicToAddress(t.Log.Topics[2]); ok {
			rec.QuoteSymbol = addressSymbol(addr)
		}
	}

	exchangeKnown := false
	if name, ok := n.factories[strings.ToLower(t.Log.Address)]; ok {
		rec.ExchangeName = name
		exchangeKnown = true
	}

	if t.Block != nil && t.Block.Timestamp > 0 {
		rec.AgeMinutes = ageMinutes(now, int64(t.Block.Timestamp)*1000)
	}

	if t.Tx != nil && t.Tx.From != "" {
		rec.DeployerAddress = strings.ToLower(t.Tx.From)
	}

	n.applyEnrichment(&rec, t.Enrichment)
	rec.IsKnownDeployer = exchangeKnown || n.isKnownDeployer(rec.DeployerAddress)
	rec.CreatedAtMs = now.UnixMilli() - rec.AgeMinutes*time.Minute.Milliseconds()

	observability.RecordNormalized("log")
	return rec
}

// NormalizePair builds a record from a pair-search result.
func (n *Normalizer) NormalizePair(r PairRecord) domain.SignalRecord {
	now := n.now()
	p := r.Pair
	rec := domain.SignalRecord{
		PairID:          pairID(r),
		BaseSymbol:      orDefault(strings.TrimSpace(p.BaseToken.Symbol), DefaultPairSymbol),
		QuoteSymbol:     orDefault(strings.TrimSpace(p.QuoteToken.Symbol), DefaultPairSymbol),
		AgeMinutes:      domain.DefaultAgeMinutes,
		ExchangeName:    domain.DefaultExchangeName,
		DeployerAddress: domain.DefaultDeployer,
	}

	if p.Liquidity != nil && p.Liquidity.Usd.Valid {
		rec.LiquidityUSD = nonNegative(p.Liquidity.Usd.Value)
	}
	if p.Volume.H24.Valid {
		rec.Volume24hUSD = nonNegative(p.Volume.H24.Value)
	}
	if total, ok := p.Txns.H24.Total(); ok {
		rec.TxCount24h = int64(nonNegative(total))
	}
	if p.PriceChange.H1.Valid {
		rec.PriceChange1hPct = finite(p.PriceChange.H1.Value)
	}
	if p.PairCreatedAt.Valid && p.PairCreatedAt.Value > 0 {
		rec.AgeMinutes = ageMinutes(now, int64(p.PairCreatedAt.Value))
	}

	exchangeKnown := false
	if dex := strings.TrimSpace(p.DexID); dex != "" {
		if name, ok := n.dexIDs[strings.ToLower(dex)]; ok {
			rec.ExchangeName = name
			exchangeKnown = true
		} else {
			rec.ExchangeName = dex
		}
	}

	n.applyEnrichment(&rec, r.Enrichment)
	rec.IsKnownDeployer = exchangeKnown || n.isKnownDeployer(rec.DeployerAddress)
	rec.CreatedAtMs = now.UnixMilli() - rec.AgeMinutes*time.Minute.Milliseconds()

	observability.RecordNormalized("pair")
	return rec
}

func (n *Normalizer) applyEnrichment(rec *domain.SignalRecord, e *Enrichment) {
	if e == nil {
		return
	}
	if e.ContractVerified != nil {
		rec.ContractVerified = *e.ContractVerified
	}
	if e.TxCount24h != nil && *e.TxCount24h >= 0 {
		rec.TxCount24h = *e.TxCount24h
	}
	if e.LiquidityUSD != nil {
		rec.LiquidityUSD = nonNegative(*e.LiquidityUSD)
	}
	if e.Volume24hUSD != nil {
		rec.Volume24hUSD = nonNegative(*e.Volume24hUSD)
	}
	if e.Deployer != "" {
		rec.DeployerAddress = strings.ToLower(e.Deployer)
	}
}

func (n *Normalizer) isKnownDeployer(addr string) bool {
	_, ok := n.deployers[strings.ToLower(addr)]
	return ok
}

// ageMinutes is whole minutes since createdMs; future timestamps give 0.
func ageMinutes(now time.Time, createdMs int64) int64 {
	age := (now.UnixMilli() - createdMs) / time.Minute.Milliseconds()
	if age < 0 {
		return 0
	}
	return age
}

func logPairID(l evm.Log) string {
	if l.TxHash == "" {
		return fmt.Sprintf("log-%d-%d", l.BlockNumber, l.LogIndex)
	}
	return fmt.Sprintf("%s-%d", strings.ToLower(l.TxHash), l.LogIndex)
}

func pairID(r PairRecord) string {
	if addr := strings.TrimSpace(r.Pair.PairAddress); addr != "" {
		return strings.ToLower(addr)
	}
	return fmt.Sprintf("%s-%s-%s", strings.ToLower(r.Pair.DexID),
		strings.ToLower(r.Pair.BaseToken.Symbol), strings.ToLower(r.Pair.QuoteToken.Symbol))
}

// addressSymbol renders an unnamed token as its address prefix.
func addressSymbol(addr string) string {
	if len(addr) > 8 {
		return addr[:8]
	}
	return addr
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func nonNegative(f float64) float64 {
	f = finite(f)
	if f < 0 {
		return 0
	}
	return f
}
