// Package evm provides a minimal Ethereum JSON-RPC client over HTTP or
// WebSocket, covering the calls the radar needs.
package evm

import (
	"context"
	"math/big"
)

// RPCClient defines the EVM JSON-RPC interface.
type RPCClient interface {
	// BlockNumber returns the latest block number.
	BlockNumber(ctx context.Context) (uint64, error)

	// GetLogs returns logs matching the filter.
	GetLogs(ctx context.Context, filter LogFilter) ([]Log, error)

	// GetBlockByNumber returns the block header, or nil if not found.
	GetBlockByNumber(ctx context.Context, number uint64) (*Block, error)

	// GetTransactionByHash returns the transaction, or nil if not found.
	GetTransactionByHash(ctx context.Context, hash string) (*Transaction, error)

	// GetBalance returns the native balance in wei at the latest block.
	GetBalance(ctx context.Context, address string) (*big.Int, error)

	// GetCode returns the hex-encoded bytecode at the latest block.
	GetCode(ctx context.Context, address string) (string, error)
}

// LogFilter selects logs for eth_getLogs.
type LogFilter struct {
	FromBlock uint64
	ToBlock   *uint64 // nil means "latest"
	Addresses []string
	// Topic0 matches any of the given event signatures.
	Topic0 []string
}

// Log is a decoded eth_getLogs entry.
type Log struct {
	Address     string
	Topics      []string
	Data        string
	BlockNumber uint64
	TxHash      string
	LogIndex    uint64
}

// Block is the subset of a block header the radar uses.
type Block struct {
	Number    uint64
	Hash      string
	Timestamp uint64 // Unix seconds
}

// Transaction is the subset of a transaction the radar uses.
type Transaction struct {
	Hash        string
	From        string
	To          string
	BlockNumber uint64
}
