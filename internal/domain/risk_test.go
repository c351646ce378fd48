package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreRequest_AcceptsSignalRecordKeys(t *testing.T) {
	rec := SignalRecord{
		PairID:           "0xpair",
		LiquidityUSD:     18_500,
		Volume24hUSD:     42_000,
		AgeMinutes:       14,
		ExchangeName:     ExchangeAerodrome,
		ContractVerified: true,
		TxCount24h:       120,
		PriceChange1hPct: -12.5,
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var req ScoreRequest
	require.NoError(t, json.Unmarshal(data, &req))

	require.NotNil(t, req.LiquidityUSD)
	require.NotNil(t, req.AgeMinutes)
	assert.Equal(t, 18_500.0, *req.LiquidityUSD)
	assert.Equal(t, int64(14), *req.AgeMinutes)
	assert.Equal(t, 42_000.0, *req.Volume24hUSD)
	assert.Equal(t, ExchangeAerodrome, *req.ExchangeName)
	assert.Equal(t, int64(120), *req.TxCount24h)
	assert.Equal(t, -12.5, *req.PriceChange1hPct)
	assert.True(t, *req.ContractVerified)
	assert.False(t, *req.IsKnownDeployer)
}

func TestScoreRequest_ExplicitKeysWin(t *testing.T) {
	var req ScoreRequest
	require.NoError(t, json.Unmarshal([]byte(`{"liquidity":1,"liquidityUsd":2,"ageMinutes":3,"dex":"A","exchangeName":"B"}`), &req))

	assert.Equal(t, 2.0, *req.LiquidityUSD)
	assert.Equal(t, "B", *req.ExchangeName)
	assert.Nil(t, req.TxCount24h)
}

func TestScoreRequest_WrongType(t *testing.T) {
	var req ScoreRequest
	assert.Error(t, json.Unmarshal([]byte(`{"liquidity":"lots","ageMinutes":5}`), &req))
}
