// Package classify maps scores to risk tiers and signal records to anomaly types.
package classify

import (
	"math"

	"base-signal-radar/internal/domain"
)

// Tier thresholds. Boundaries are inclusive on the lower side.
const (
	LowRiskMinScore    = 65
	MediumRiskMinScore = 35
)

// Anomaly rule thresholds.
const (
	NewPoolMaxAgeMinutes   = 120
	NewTokenMaxAgeMinutes  = 360
	RapidMintMinPriceDelta = 50.0
	WhaleVolumeMultiple    = 2.0
	LiquiditySpikeMinUSD   = 500_000.0
)

// TierForScore returns the risk tier for a score.
func TierForScore(score int) domain.Tier {
	switch {
	case score >= LowRiskMinScore:
		return domain.TierLow
	case score >= MediumRiskMinScore:
		return domain.TierMedium
	default:
		return domain.TierHigh
	}
}

// anomalyRule is a single precedence rule. Rules are evaluated in order
// and the first match wins.
type anomalyRule struct {
	anomaly domain.AnomalyType
	match   func(r domain.SignalRecord) bool
}

var anomalyRules = []anomalyRule{
	{domain.AnomalyNewPool, func(r domain.SignalRecord) bool {
		return r.AgeMinutes < NewPoolMaxAgeMinutes
	}},
	{domain.AnomalyNewToken, func(r domain.SignalRecord) bool {
		return r.AgeMinutes >= NewPoolMaxAgeMinutes && r.AgeMinutes < NewTokenMaxAgeMinutes
	}},
	{domain.AnomalyRapidMint, func(r domain.SignalRecord) bool {
		return math.Abs(r.PriceChange1hPct) > RapidMintMinPriceDelta
	}},
	{domain.AnomalyWhaleEntry, func(r domain.SignalRecord) bool {
		return r.Volume24hUSD > WhaleVolumeMultiple*r.LiquidityUSD
	}},
	{domain.AnomalyLiquiditySpike, func(r domain.SignalRecord) bool {
		return r.LiquidityUSD > LiquiditySpikeMinUSD
	}},
}

// Anomaly classifies a record using the raw signal fields, never the score.
// UNUSUAL_VOLUME is the residual bucket.
func Anomaly(r domain.SignalRecord) domain.AnomalyType {
	for _, rule := range anomalyRules {
		if rule.match(r) {
			return rule.anomaly
		}
	}
	return domain.AnomalyUnusualVolume
}
