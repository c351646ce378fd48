package domain

// SignalRecord is the canonical per-pair snapshot consumed by scoring and
// classification. Records are built fresh on every poll and never persisted.
type SignalRecord struct {
	PairID           string  `json:"id"`
	BaseSymbol       string  `json:"token0"`
	QuoteSymbol      string  `json:"token1"`
	LiquidityUSD     float64 `json:"liquidity"`
	Volume24hUSD     float64 `json:"volume24h"`
	AgeMinutes       int64   `json:"ageMinutes"`
	ExchangeName     string  `json:"dex"`
	DeployerAddress  string  `json:"deployer"`
	IsKnownDeployer  bool    `json:"isKnownDeployer"`
	ContractVerified bool    `json:"contractVerified"`
	TxCount24h       int64   `json:"txCount"`
	PriceChange1hPct float64 `json:"priceChange1h"`
	CreatedAtMs      int64   `json:"timestamp"`
}

// Pair returns the "BASE/QUOTE" display label.
func (r SignalRecord) Pair() string {
	return r.BaseSymbol + "/" + r.QuoteSymbol
}

// Defaults applied when an upstream field is missing or unusable.
const (
	DefaultAgeMinutes   int64 = 60
	DefaultExchangeName       = "Unknown DEX"
	DefaultDeployer           = "unknown"
)

// Canonical exchange display names.
const (
	ExchangeUniswapV3 = "Uniswap V3"
	ExchangeAerodrome = "Aerodrome"
	ExchangeBaseSwap  = "BaseSwap"
	ExchangeSushiSwap = "SushiSwap"
	ExchangeCurve     = "Curve"
)

// KnownExchanges is the built-in trusted exchange set.
func KnownExchanges() []string {
	return []string{
		ExchangeUniswapV3,
		ExchangeAerodrome,
		ExchangeBaseSwap,
		ExchangeSushiSwap,
		ExchangeCurve,
	}
}
