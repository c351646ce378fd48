// Package pairsearch provides a client for DexScreener-compatible pair
// search APIs.
package pairsearch

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// SearchResponse is the body of GET /latest/dex/search.
type SearchResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
}

// Pair contains detailed information about a trading pair.
// Numeric fields tolerate numbers, numeric strings and null.
type Pair struct {
	ChainID       string     `json:"chainId"`
	DexID         string     `json:"dexId"`
	URL           string     `json:"url"`
	PairAddress   string     `json:"pairAddress"`
	BaseToken     Token      `json:"baseToken"`
	QuoteToken    Token      `json:"quoteToken"`
	PriceUsd      Number     `json:"priceUsd"`
	Txns          Txns       `json:"txns"`
	Volume        Windows    `json:"volume"`
	PriceChange   Windows    `json:"priceChange"`
	Liquidity     *Liquidity `json:"liquidity"`
	Fdv           Number     `json:"fdv"`
	PairCreatedAt Number     `json:"pairCreatedAt"` // Unix milliseconds
	Labels        []string   `json:"labels"`
}

// Token represents a token in a trading pair.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Liquidity represents the liquidity information for a pair.
type Liquidity struct {
	Usd   Number `json:"usd"`
	Base  Number `json:"base"`
	Quote Number `json:"quote"`
}

// Txns represents transaction counts for a pair.
type Txns struct {
	M5  TxnSummary `json:"m5"`
	H1  TxnSummary `json:"h1"`
	H6  TxnSummary `json:"h6"`
	H24 TxnSummary `json:"h24"`
}

// TxnSummary contains buy and sell counts.
type TxnSummary struct {
	Buys  Number `json:"buys"`
	Sells Number `json:"sells"`
}

// Total returns buys + sells, or false if neither was reported.
func (s TxnSummary) Total() (float64, bool) {
	if !s.Buys.Valid && !s.Sells.Valid {
		return 0, false
	}
	return s.Buys.Value + s.Sells.Value, true
}

// Windows holds a value per rolling window.
type Windows struct {
	M5  Number `json:"m5"`
	H1  Number `json:"h1"`
	H6  Number `json:"h6"`
	H24 Number `json:"h24"`
}

// Number is a lenient JSON number. Decoding never fails; anything that is
// not a finite number or numeric string leaves Valid false.
type Number struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	var f float64
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = v
	} else if err := json.Unmarshal(b, &f); err != nil {
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.Value, n.Valid = f, true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Float returns the value as a pointer, nil when absent.
func (n Number) Float() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
