package pairsearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "schemaVersion": "1.0.0",
  "pairs": [
    {
      "chainId": "base",
      "dexId": "aerodrome",
      "pairAddress": "0xPAIR1",
      "baseToken": {"address": "0xBASE", "name": "Degen", "symbol": "DEGEN"},
      "quoteToken": {"address": "0x4200000000000000000000000000000000000006", "symbol": "WETH"},
      "priceUsd": "0.0123",
      "txns": {"h24": {"buys": 120, "sells": "80"}},
      "volume": {"h24": 142000.5},
      "priceChange": {"h1": "-12.4"},
      "liquidity": {"usd": 18500},
      "pairCreatedAt": 1700000000000
    },
    {
      "chainId": "ethereum",
      "dexId": "uniswap",
      "pairAddress": "0xPAIR2",
      "baseToken": {"symbol": "DEGEN"},
      "quoteToken": {"symbol": "USDC"}
    }
  ]
}`

func TestHTTPClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/dex/search", r.URL.Path)
		assert.Equal(t, "DEGEN WETH", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	client := NewHTTPClient(WithBaseURL(server.URL))

	pairs, err := client.Search(context.Background(), "DEGEN WETH")
	require.NoError(t, err)
	require.Len(t, pairs, 1, "non-base pairs are filtered")

	p := pairs[0]
	assert.Equal(t, "aerodrome", p.DexID)
	assert.Equal(t, "DEGEN", p.BaseToken.Symbol)
	require.NotNil(t, p.Liquidity)
	assert.Equal(t, 18500.0, p.Liquidity.Usd.Value)
	assert.Equal(t, 142000.5, p.Volume.H24.Value)
	assert.Equal(t, -12.4, p.PriceChange.H1.Value)

	total, ok := p.Txns.H24.Total()
	assert.True(t, ok)
	assert.Equal(t, 200.0, total)
	assert.Equal(t, 1700000000000.0, p.PairCreatedAt.Value)
}

func TestHTTPClient_Search_AllChains(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchBody))
	}))
	defer server.Close()

	client := NewHTTPClient(WithBaseURL(server.URL), WithChainID(""))

	pairs, err := client.Search(context.Background(), "DEGEN")
	require.NoError(t, err)
	assert.Len(t, pairs, 2)
}

func TestHTTPClient_Search_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(WithBaseURL(server.URL))

	_, err := client.Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNumber_Lenient(t *testing.T) {
	tests := []struct {
		in    string
		value float64
		valid bool
	}{
		{`12.5`, 12.5, true},
		{`"12.5"`, 12.5, true},
		{`"-3"`, -3, true},
		{`null`, 0, false},
		{`"abc"`, 0, false},
		{`""`, 0, false},
		{`{"nested":1}`, 0, false},
		{`[1,2]`, 0, false},
		{`true`, 0, false},
		{`"NaN"`, 0, false},
		{`"Inf"`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.valid, n.Valid)
			assert.Equal(t, tt.value, n.Value)
		})
	}
}

func TestNumber_InStruct(t *testing.T) {
	var p Pair
	err := json.Unmarshal([]byte(`{"liquidity":{"usd":"garbage"},"volume":{"h24":null},"pairCreatedAt":"1700000000000"}`), &p)
	require.NoError(t, err)
	require.NotNil(t, p.Liquidity)
	assert.False(t, p.Liquidity.Usd.Valid)
	assert.False(t, p.Volume.H24.Valid)
	assert.True(t, p.PairCreatedAt.Valid)
	assert.Nil(t, p.Volume.H24.Float())
}

func TestTxnSummary_Total_Absent(t *testing.T) {
	_, ok := TxnSummary{}.Total()
	assert.False(t, ok)
}
