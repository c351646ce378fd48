// Package explorer provides a client for Etherscan-compatible block
// explorer APIs (Basescan on Base).
package explorer

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ErrNoResult is returned when the explorer reports a non-empty failure
// (status "0" with anything other than "No transactions found").
var ErrNoResult = errors.New("explorer returned no result")

// Sort orders explorer list results.
type Sort string

const (
	SortAsc  Sort = "asc"
	SortDesc Sort = "desc"
)

// Client defines the explorer queries the radar needs.
type Client interface {
	// GetSourceCode returns verification info for a contract.
	GetSourceCode(ctx context.Context, address string) (*SourceCode, error)

	// TxList returns normal transactions for an address.
	TxList(ctx context.Context, address string, opts ListOpts) ([]Tx, error)

	// TokenTxList returns ERC-20 transfer events involving an address.
	TokenTxList(ctx context.Context, address string, opts ListOpts) ([]TokenTx, error)
}

// ListOpts are paging options for list actions.
type ListOpts struct {
	Sort   Sort
	Page   int
	Offset int // page size
}

// SourceCode is the verification record of a contract.
type SourceCode struct {
	SourceCode      string `json:"SourceCode"`
	ContractName    string `json:"ContractName"`
	CompilerVersion string `json:"CompilerVersion"`
}

// Verified reports whether the explorer holds published source.
func (s *SourceCode) Verified() bool {
	return s != nil && s.SourceCode != ""
}

// Tx is a normal transaction as listed by the explorer.
type Tx struct {
	Hash        string `json:"hash"`
	BlockNumber string `json:"blockNumber"`
	TimeStamp   string `json:"timeStamp"` // Unix seconds, decimal string
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	IsError     string `json:"isError"`
}

// Time returns the transaction timestamp. ok is false when the explorer
// omitted or garbled it.
func (t Tx) Time() (tm time.Time, ok bool) {
	secs, err := strconv.ParseInt(t.TimeStamp, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}, false
	}
	return time.Unix(secs, 0), true
}

// TokenTx is an ERC-20 transfer as listed by the explorer.
type TokenTx struct {
	Hash            string `json:"hash"`
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	From            string `json:"from"`
	To              string `json:"to"`
	ContractAddress string `json:"contractAddress"`
	TokenSymbol     string `json:"tokenSymbol"`
	Value           string `json:"value"`
}
