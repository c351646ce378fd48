// Package normalization turns partially populated upstream records into
// canonical domain.SignalRecord values.
package normalization

import (
	"base-signal-radar/internal/evm"
	"base-signal-radar/internal/pairsearch"
)

// Upstream is one raw record from a live source. The set of
// implementations is closed: LogTriple and PairRecord.
type Upstream interface {
	upstreamKind() string
}

// Enrichment carries optional explorer-derived facts. Nil fields are absent.
type Enrichment struct {
	ContractVerified *bool
	TxCount24h       *int64
	LiquidityUSD     *float64
	Volume24hUSD     *float64
	Deployer         string
}

// LogTriple is a PoolCreated log with its block and transaction lookups.
// Block and Tx are nil when the lookup failed.
type LogTriple struct {
	Log        evm.Log
	Block      *evm.Block
	Tx         *evm.Transaction
	Enrichment *Enrichment
}

func (LogTriple) upstreamKind() string { return "log" }

// PairRecord is one pair returned by the pair-search API.
type PairRecord struct {
	Pair       pairsearch.Pair
	Enrichment *Enrichment
}

func (PairRecord) upstreamKind() string { return "pair" }
