package domain

import "encoding/json"

// Tier is the coarse risk bucket derived from a score. LOW is safest.
type Tier string

const (
	TierLow    Tier = "LOW"
	TierMedium Tier = "MEDIUM"
	TierHigh   Tier = "HIGH"
)

// String returns the string representation of Tier.
func (t Tier) String() string {
	return string(t)
}

// IsValid checks if the tier is a valid value.
func (t Tier) IsValid() bool {
	return t == TierLow || t == TierMedium || t == TierHigh
}

// Sign is the direction of a single factor's contribution.
type Sign string

const (
	SignPositive Sign = "POSITIVE"
	SignNeutral  Sign = "NEUTRAL"
	SignNegative Sign = "NEGATIVE"
)

// SignOf maps a signed adjustment to its Sign.
func SignOf(points int) Sign {
	switch {
	case points > 0:
		return SignPositive
	case points < 0:
		return SignNegative
	default:
		return SignNeutral
	}
}

// Factor names one of the seven scoring factors.
type Factor string

const (
	FactorLiquidity  Factor = "liquidity"
	FactorAge        Factor = "age"
	FactorExchange   Factor = "exchange"
	FactorDeployer   Factor = "deployer"
	FactorContract   Factor = "contract"
	FactorActivity   Factor = "activity"
	FactorVolatility Factor = "volatility"
)

// Factors returns all scoring factors in reporting order.
func Factors() []Factor {
	return []Factor{
		FactorLiquidity,
		FactorAge,
		FactorExchange,
		FactorDeployer,
		FactorContract,
		FactorActivity,
		FactorVolatility,
	}
}

// ScoreResult is the output of the scoring engine for one record.
type ScoreResult struct {
	Score       int             `json:"score"`
	Tier        Tier            `json:"level"`
	Breakdown   map[Factor]Sign `json:"breakdown"`
	Adjustments map[Factor]int  `json:"adjustments"`
}

// ScoreRequest is the score-only payload. LiquidityUSD and AgeMinutes are
// required; every other field is optional. Besides its own keys it accepts
// the SignalRecord keys (liquidity, volume24h, dex, txCount, priceChange1h),
// so a feed item can be posted back as is. Explicit keys win.
type ScoreRequest struct {
	LiquidityUSD     *float64 `json:"liquidityUsd"`
	AgeMinutes       *int64   `json:"ageMinutes"`
	Volume24hUSD     *float64 `json:"volume24hUsd,omitempty"`
	ExchangeName     *string  `json:"exchangeName,omitempty"`
	IsKnownDeployer  *bool    `json:"isKnownDeployer,omitempty"`
	ContractVerified *bool    `json:"contractVerified,omitempty"`
	TxCount24h       *int64   `json:"txCount24h,omitempty"`
	PriceChange1hPct *float64 `json:"priceChange1hPct,omitempty"`
	ContractAddress  string   `json:"contractAddress,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *ScoreRequest) UnmarshalJSON(data []byte) error {
	type plain ScoreRequest
	var aux struct {
		plain
		Liquidity     *float64 `json:"liquidity"`
		Volume24h     *float64 `json:"volume24h"`
		Dex           *string  `json:"dex"`
		TxCount       *int64   `json:"txCount"`
		PriceChange1h *float64 `json:"priceChange1h"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = ScoreRequest(aux.plain)
	if r.LiquidityUSD == nil {
		r.LiquidityUSD = aux.Liquidity
	}
	if r.Volume24hUSD == nil {
		r.Volume24hUSD = aux.Volume24h
	}
	if r.ExchangeName == nil {
		r.ExchangeName = aux.Dex
	}
	if r.TxCount24h == nil {
		r.TxCount24h = aux.TxCount
	}
	if r.PriceChange1hPct == nil {
		r.PriceChange1hPct = aux.PriceChange1h
	}
	return nil
}
