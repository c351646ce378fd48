package feed

import (
	"time"

	"base-signal-radar/internal/domain"
)

// sample is a fallback record before its timestamp is fixed.
type sample struct {
	id, base, quote   string
	liquidity, volume float64
	age               int64
	dex, deployer     string
	knownDeployer     bool
	verified          bool
	txCount           int64
	priceChange       float64
}

// samples spans every anomaly type and every tier once scored.
var samples = []sample{
	{"sample-1", "DEGEN", "WETH", 18500, 142000, 180, domain.ExchangeUniswapV3, "0x4200000000000000000000000000000000000006", false, true, 12, 85.4},
	{"sample-2", "cbBTC", "USDC", 2_400_000, 3_900_000, 2880, domain.ExchangeAerodrome, "0x1cea84203673764244e05693e42e6ace62be9ba5", true, true, 847, 3.2},
	{"sample-3", "BRETT", "USDC", 4200, 31000, 1, domain.ExchangeBaseSwap, "0x9d2e791cfa2e55b08f7d9e393fb5b3b9f3f3f3f3", false, false, 4, 220.0},
	{"sample-4", "TOSHI", "WETH", 89000, 150000, 720, domain.ExchangeUniswapV3, "0x4200000000000000000000000000000000000006", true, true, 312, 18.7},
	{"sample-5", "MOCHI", "USDC", 7800, 94000, 600, domain.ExchangeSushiSwap, "0xf8ab3c7b2e1d9f4a5c6e7d8b9a0c1d2e3f4a5b6c", false, false, 28, 42.3},
	{"sample-6", "USDbC", "USDC", 12_000_000, 3_200_000, 2880, domain.ExchangeCurve, "0x4c36388be6f416a29c8d8eee81c771ce6be14b5", true, true, 5420, 0.01},
	{"sample-7", "NORMIE", "WETH", 3200, 28000, 400, domain.DefaultExchangeName, "0x2b9f3c4d5e6f7a8b9c0d1e2f3a4b5c6d7e8f9a0b", false, false, 7, 310.5},
	{"sample-8", "VIRTUAL", "USDC", 340000, 1_800_000, 120, domain.ExchangeAerodrome, "0x0b3e328455c4059eeb9e3f84b5543f74e24e7e1", true, true, 1204, 12.5},
}

// Samples returns the fallback record set stamped relative to now.
func Samples(now time.Time) []domain.SignalRecord {
	out := make([]domain.SignalRecord, len(samples))
	for i, s := range samples {
		out[i] = domain.SignalRecord{
			PairID:           s.id,
			BaseSymbol:       s.base,
			QuoteSymbol:      s.quote,
			LiquidityUSD:     s.liquidity,
			Volume24hUSD:     s.volume,
			AgeMinutes:       s.age,
			ExchangeName:     s.dex,
			DeployerAddress:  s.deployer,
			IsKnownDeployer:  s.knownDeployer,
			ContractVerified: s.verified,
			TxCount24h:       s.txCount,
			PriceChange1hPct: s.priceChange,
			CreatedAtMs:      now.Add(-time.Duration(s.age) * time.Minute).UnixMilli(),
		}
	}
	return out
}
