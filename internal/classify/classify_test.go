package classify

import (
	"testing"

	"base-signal-radar/internal/domain"
)

func TestTierForScore_Boundaries(t *testing.T) {
	tests := []struct {
		score int
		want  domain.Tier
	}{
		{0, domain.TierHigh},
		{34, domain.TierHigh},
		{35, domain.TierMedium},
		{64, domain.TierMedium},
		{65, domain.TierLow},
		{100, domain.TierLow},
	}

	for _, tt := range tests {
		if got := TierForScore(tt.score); got != tt.want {
			t.Errorf("TierForScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestTierForScore_Total(t *testing.T) {
	counts := map[domain.Tier]int{}
	for score := 0; score <= 100; score++ {
		tier := TierForScore(score)
		if !tier.IsValid() {
			t.Fatalf("score %d produced invalid tier %q", score, tier)
		}
		counts[tier]++
	}

	if counts[domain.TierHigh] != 35 {
		t.Errorf("expected 35 HIGH scores, got %d", counts[domain.TierHigh])
	}
	if counts[domain.TierMedium] != 30 {
		t.Errorf("expected 30 MEDIUM scores, got %d", counts[domain.TierMedium])
	}
	if counts[domain.TierLow] != 36 {
		t.Errorf("expected 36 LOW scores, got %d", counts[domain.TierLow])
	}
}

func TestAnomaly_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		record domain.SignalRecord
		want   domain.AnomalyType
	}{
		{
			name:   "fresh pool beats rapid price move",
			record: domain.SignalRecord{AgeMinutes: 10, PriceChange1hPct: 90},
			want:   domain.AnomalyNewPool,
		},
		{
			name:   "age 119 is still a new pool",
			record: domain.SignalRecord{AgeMinutes: 119, LiquidityUSD: 1_000_000},
			want:   domain.AnomalyNewPool,
		},
		{
			name:   "age 120 is a new token",
			record: domain.SignalRecord{AgeMinutes: 120, PriceChange1hPct: 300},
			want:   domain.AnomalyNewToken,
		},
		{
			name:   "age 359 is a new token",
			record: domain.SignalRecord{AgeMinutes: 359},
			want:   domain.AnomalyNewToken,
		},
		{
			name:   "negative price move counts as rapid mint",
			record: domain.SignalRecord{AgeMinutes: 360, PriceChange1hPct: -51, Volume24hUSD: 10, LiquidityUSD: 1},
			want:   domain.AnomalyRapidMint,
		},
		{
			name:   "exactly 50 percent is not rapid mint",
			record: domain.SignalRecord{AgeMinutes: 400, PriceChange1hPct: 50, Volume24hUSD: 100, LiquidityUSD: 100},
			want:   domain.AnomalyUnusualVolume,
		},
		{
			name:   "volume above twice liquidity is whale entry",
			record: domain.SignalRecord{AgeMinutes: 400, Volume24hUSD: 2_000_001, LiquidityUSD: 1_000_000},
			want:   domain.AnomalyWhaleEntry,
		},
		{
			name:   "volume exactly twice liquidity falls through",
			record: domain.SignalRecord{AgeMinutes: 400, Volume24hUSD: 2_000_000, LiquidityUSD: 1_000_000},
			want:   domain.AnomalyLiquiditySpike,
		},
		{
			name:   "liquidity 500k exactly is not a spike",
			record: domain.SignalRecord{AgeMinutes: 400, LiquidityUSD: 500_000},
			want:   domain.AnomalyUnusualVolume,
		},
		{
			name:   "zero everything with old age is residual",
			record: domain.SignalRecord{AgeMinutes: 10_000},
			want:   domain.AnomalyUnusualVolume,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Anomaly(tt.record); got != tt.want {
				t.Errorf("Anomaly() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAnomaly_ExactlyOneAndDeterministic(t *testing.T) {
	ages := []int64{0, 60, 119, 120, 200, 359, 360, 5000}
	deltas := []float64{-300, -50.5, 0, 20, 50, 51, 400}
	liquidity := []float64{0, 4000, 250_000, 500_000, 500_001, 12_000_000}
	volume := []float64{0, 10_000, 1_000_001, 30_000_000}

	for _, age := range ages {
		for _, d := range deltas {
			for _, l := range liquidity {
				for _, v := range volume {
					r := domain.SignalRecord{AgeMinutes: age, PriceChange1hPct: d, LiquidityUSD: l, Volume24hUSD: v}
					first := Anomaly(r)
					if !first.IsValid() {
						t.Fatalf("invalid anomaly %q for %+v", first, r)
					}
					if second := Anomaly(r); second != first {
						t.Fatalf("non-deterministic classification for %+v: %s vs %s", r, first, second)
					}
				}
			}
		}
	}
}
