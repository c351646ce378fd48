package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
)

// callFunc performs one JSON-RPC call and decodes the result.
type callFunc func(ctx context.Context, method string, params []interface{}, result interface{}) error

// methods implements RPCClient on top of any transport's call function.
type methods struct {
	call callFunc
}

// BlockNumber returns the latest block number.
func (m methods) BlockNumber(ctx context.Context) (uint64, error) {
	var hex string
	if err := m.call(ctx, "eth_blockNumber", nil, &hex); err != nil {
		return 0, err
	}
	return ParseQuantity(hex)
}

// GetLogs returns logs matching the filter.
func (m methods) GetLogs(ctx context.Context, filter LogFilter) ([]Log, error) {
	q := map[string]interface{}{
		"fromBlock": ToQuantity(filter.FromBlock),
		"toBlock":   "latest",
	}
	if filter.ToBlock != nil {
		q["toBlock"] = ToQuantity(*filter.ToBlock)
	}
	if len(filter.Addresses) > 0 {
		q["address"] = filter.Addresses
	}
	if len(filter.Topic0) > 0 {
		q["topics"] = []interface{}{filter.Topic0}
	}

	var raw []rawLog
	if err := m.call(ctx, "eth_getLogs", []interface{}{q}, &raw); err != nil {
		return nil, err
	}

	logs := make([]Log, 0, len(raw))
	for _, r := range raw {
		l := Log{
			Address: r.Address,
			Topics:  r.Topics,
			Data:    r.Data,
			TxHash:  r.TransactionHash,
		}
		// Pending logs carry null positions; leave them zero.
		if n, err := ParseQuantity(r.BlockNumber); err == nil {
			l.BlockNumber = n
		}
		if n, err := ParseQuantity(r.LogIndex); err == nil {
			l.LogIndex = n
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// GetBlockByNumber returns the block header, or nil if not found.
func (m methods) GetBlockByNumber(ctx context.Context, number uint64) (*Block, error) {
	var raw *rawBlock
	if err := m.call(ctx, "eth_getBlockByNumber", []interface{}{ToQuantity(number), false}, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	ts, err := ParseQuantity(raw.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("block %d timestamp: %w", number, err)
	}
	block := &Block{Number: number, Hash: raw.Hash, Timestamp: ts}
	if n, err := ParseQuantity(raw.Number); err == nil {
		block.Number = n
	}
	return block, nil
}

// GetTransactionByHash returns the transaction, or nil if not found.
func (m methods) GetTransactionByHash(ctx context.Context, hash string) (*Transaction, error) {
	var raw *rawTransaction
	if err := m.call(ctx, "eth_getTransactionByHash", []interface{}{hash}, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	tx := &Transaction{Hash: raw.Hash, From: raw.From}
	if raw.To != nil {
		tx.To = *raw.To
	}
	if raw.BlockNumber != nil {
		if n, err := ParseQuantity(*raw.BlockNumber); err == nil {
			tx.BlockNumber = n
		}
	}
	return tx, nil
}

// GetBalance returns the native balance in wei at the latest block.
func (m methods) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	var hex string
	if err := m.call(ctx, "eth_getBalance", []interface{}{address, "latest"}, &hex); err != nil {
		return nil, err
	}
	return ParseBig(hex)
}

// GetCode returns the hex-encoded bytecode at the latest block.
func (m methods) GetCode(ctx context.Context, address string) (string, error) {
	var code string
	if err := m.call(ctx, "eth_getCode", []interface{}{address, "latest"}, &code); err != nil {
		return "", err
	}
	return code, nil
}

// Raw JSON-RPC result shapes.

type rawLog struct {
	Address         string   `json:"address"`
	Topics          []string `json:"topics"`
	Data            string   `json:"data"`
	BlockNumber     string   `json:"blockNumber"`
	TransactionHash string   `json:"transactionHash"`
	LogIndex        string   `json:"logIndex"`
}

type rawBlock struct {
	Number    string `json:"number"`
	Hash      string `json:"hash"`
	Timestamp string `json:"timestamp"`
}

type rawTransaction struct {
	Hash        string  `json:"hash"`
	From        string  `json:"from"`
	To          *string `json:"to"`
	BlockNumber *string `json:"blockNumber"`
}

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// decodeResult unmarshals a raw result into dst. A JSON null leaves dst untouched.
func decodeResult(raw json.RawMessage, dst interface{}) error {
	if dst == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}
