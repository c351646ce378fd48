// Package scoring implements the linear, explainable pair risk score.
//
// Every score starts from a neutral baseline and applies one independent
// adjustment per factor. Clamping to [0, 100] happens once, at the end.
package scoring

import (
	"math"

	"base-signal-radar/internal/classify"
	"base-signal-radar/internal/domain"
)

// Score bounds and baseline.
const (
	Baseline = 50
	MinScore = 0
	MaxScore = 100
)

// Liquidity thresholds (USD).
const (
	liquidityHigh     = 200_000.0
	liquidityMedium   = 50_000.0
	liquidityLow      = 20_000.0
	liquidityCritical = 5_000.0
)

// Age thresholds (minutes).
const (
	ageMature  = 60
	ageWarm    = 30
	ageYoung   = 15
	ageNewborn = 5
)

// Activity and volatility thresholds.
const (
	activeTxCount    = 100
	volatilityHigh   = 50.0
	volatilityMedium = 20.0
)

// Engine scores signal records against a known-exchange set.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	knownExchanges map[string]struct{}
}

// NewEngine creates an engine trusting the given exchange names.
// Matching is exact and case-sensitive.
func NewEngine(knownExchanges []string) *Engine {
	set := make(map[string]struct{}, len(knownExchanges))
	for _, name := range knownExchanges {
		set[name] = struct{}{}
	}
	return &Engine{knownExchanges: set}
}

// Default is the engine trusting the built-in exchange set.
var Default = NewEngine(domain.KnownExchanges())

// Score returns the clamped score using the Default engine.
func Score(r domain.SignalRecord) int {
	return Default.Score(r)
}

// Evaluate returns the full result using the Default engine.
func Evaluate(r domain.SignalRecord) domain.ScoreResult {
	return Default.Evaluate(r)
}

// IsKnownExchange reports whether name is in the trusted set.
func (e *Engine) IsKnownExchange(name string) bool {
	_, ok := e.knownExchanges[name]
	return ok
}

// Score returns the clamped score for r.
func (e *Engine) Score(r domain.SignalRecord) int {
	return clamp(Baseline + sum(e.Adjustments(r)))
}

// Evaluate returns the score, tier and per-factor breakdown for r.
func (e *Engine) Evaluate(r domain.SignalRecord) domain.ScoreResult {
	adj := e.Adjustments(r)
	score := clamp(Baseline + sum(adj))

	breakdown := make(map[domain.Factor]domain.Sign, len(adj))
	for f, points := range adj {
		breakdown[f] = domain.SignOf(points)
	}

	return domain.ScoreResult{
		Score:       score,
		Tier:        classify.TierForScore(score),
		Breakdown:   breakdown,
		Adjustments: adj,
	}
}

// Adjustments returns the signed contribution of every factor for r.
func (e *Engine) Adjustments(r domain.SignalRecord) map[domain.Factor]int {
	return map[domain.Factor]int{
		domain.FactorLiquidity:  liquidityPoints(r.LiquidityUSD),
		domain.FactorAge:        agePoints(r.AgeMinutes),
		domain.FactorExchange:   e.exchangePoints(r.ExchangeName),
		domain.FactorDeployer:   choose(r.IsKnownDeployer, 15, -15),
		domain.FactorContract:   choose(r.ContractVerified, 10, -10),
		domain.FactorActivity:   activityPoints(r.TxCount24h),
		domain.FactorVolatility: volatilityPoints(r.PriceChange1hPct),
	}
}

func liquidityPoints(usd float64) int {
	switch {
	case usd > liquidityHigh:
		return 20
	case usd > liquidityMedium:
		return 10
	case usd < liquidityCritical:
		return -35
	case usd < liquidityLow:
		return -20
	default:
		return 0
	}
}

func agePoints(minutes int64) int {
	switch {
	case minutes > ageMature:
		return 15
	case minutes > ageWarm:
		return 8
	case minutes < ageNewborn:
		return -25
	case minutes < ageYoung:
		return -12
	default:
		return 0
	}
}

func (e *Engine) exchangePoints(name string) int {
	return choose(e.IsKnownExchange(name), 15, -10)
}

func activityPoints(txCount int64) int {
	if txCount > activeTxCount {
		return 5
	}
	return 0
}

func volatilityPoints(pct float64) int {
	abs := math.Abs(pct)
	switch {
	case abs > volatilityHigh:
		return -20
	case abs > volatilityMedium:
		return -8
	default:
		return 0
	}
}

func choose(cond bool, yes, no int) int {
	if cond {
		return yes
	}
	return no
}

func sum(adj map[domain.Factor]int) int {
	total := 0
	for _, points := range adj {
		total += points
	}
	return total
}

func clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
