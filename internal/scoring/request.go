package scoring

import (
	"errors"
	"fmt"
	"math"

	"base-signal-radar/internal/domain"
)

// Caller errors for the score-only request.
var (
	// ErrMissingField is returned when a required scoring field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField is returned when a field is present but unusable.
	ErrInvalidField = errors.New("invalid field")
)

// FromRequest builds a SignalRecord from a score-only request.
// liquidityUsd and ageMinutes must be present; they are never defaulted
// because their absence is a caller contract violation, not upstream noise.
func FromRequest(req domain.ScoreRequest) (domain.SignalRecord, error) {
	if req.LiquidityUSD == nil {
		return domain.SignalRecord{}, fmt.Errorf("%w: liquidityUsd", ErrMissingField)
	}
	if req.AgeMinutes == nil {
		return domain.SignalRecord{}, fmt.Errorf("%w: ageMinutes", ErrMissingField)
	}
	if !validAmount(*req.LiquidityUSD) {
		return domain.SignalRecord{}, fmt.Errorf("%w: liquidityUsd must be a finite non-negative number", ErrInvalidField)
	}
	if *req.AgeMinutes < 0 {
		return domain.SignalRecord{}, fmt.Errorf("%w: ageMinutes must be non-negative", ErrInvalidField)
	}

	r := domain.SignalRecord{
		PairID:          req.ContractAddress,
		LiquidityUSD:    *req.LiquidityUSD,
		AgeMinutes:      *req.AgeMinutes,
		ExchangeName:    domain.DefaultExchangeName,
		DeployerAddress: domain.DefaultDeployer,
	}

	if req.Volume24hUSD != nil && validAmount(*req.Volume24hUSD) {
		r.Volume24hUSD = *req.Volume24hUSD
	}
	if req.ExchangeName != nil && *req.ExchangeName != "" {
		r.ExchangeName = *req.ExchangeName
	}
	if req.IsKnownDeployer != nil {
		r.IsKnownDeployer = *req.IsKnownDeployer
	}
	if req.ContractVerified != nil {
		r.ContractVerified = *req.ContractVerified
	}
	if req.TxCount24h != nil && *req.TxCount24h > 0 {
		r.TxCount24h = *req.TxCount24h
	}
	if req.PriceChange1hPct != nil && !math.IsNaN(*req.PriceChange1hPct) && !math.IsInf(*req.PriceChange1hPct, 0) {
		r.PriceChange1hPct = *req.PriceChange1hPct
	}

	return r, nil
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
