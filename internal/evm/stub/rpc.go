// Package stub provides an in-memory evm.RPCClient for tests.
package stub

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"

	"base-signal-radar/internal/evm"
)

// ErrNotFound is returned when a block or transaction is not found.
var ErrNotFound = errors.New("not found")

// RPCClient implements evm.RPCClient for testing.
// Addresses are matched case-insensitively.
type RPCClient struct {
	mu sync.Mutex

	Head         uint64
	Logs         []evm.Log
	Blocks       map[uint64]*evm.Block
	Transactions map[string]*evm.Transaction
	Balances     map[string]*big.Int
	Code         map[string]string

	// Err, when set, is returned by every call.
	Err error
	// MethodErrs overrides Err per method name (e.g. "GetCode").
	MethodErrs map[string]error

	// Calls counts invocations per method name.
	Calls map[string]int
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Blocks:       make(map[uint64]*evm.Block),
		Transactions: make(map[string]*evm.Transaction),
		Balances:     make(map[string]*big.Int),
		Code:         make(map[string]string),
		MethodErrs:   make(map[string]error),
		Calls:        make(map[string]int),
	}
}

func (c *RPCClient) enter(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls[method]++
	if err, ok := c.MethodErrs[method]; ok {
		return err
	}
	return c.Err
}

// BlockNumber returns Head.
func (c *RPCClient) BlockNumber(_ context.Context) (uint64, error) {
	if err := c.enter("BlockNumber"); err != nil {
		return 0, err
	}
	return c.Head, nil
}

// GetLogs returns stored logs inside the filter's block range.
func (c *RPCClient) GetLogs(_ context.Context, filter evm.LogFilter) ([]evm.Log, error) {
	if err := c.enter("GetLogs"); err != nil {
		return nil, err
	}
	to := c.Head
	if filter.ToBlock != nil {
		to = *filter.ToBlock
	}
	var out []evm.Log
	for _, l := range c.Logs {
		if l.BlockNumber < filter.FromBlock || l.BlockNumber > to {
			continue
		}
		if len(filter.Topic0) > 0 && (len(l.Topics) == 0 || !containsFold(filter.Topic0, l.Topics[0])) {
			continue
		}
		if len(filter.Addresses) > 0 && !containsFold(filter.Addresses, l.Address) {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

// GetBlockByNumber returns a stored block or nil.
func (c *RPCClient) GetBlockByNumber(_ context.Context, number uint64) (*evm.Block, error) {
	if err := c.enter("GetBlockByNumber"); err != nil {
		return nil, err
	}
	return c.Blocks[number], nil
}

// GetTransactionByHash returns a stored transaction or nil.
func (c *RPCClient) GetTransactionByHash(_ context.Context, hash string) (*evm.Transaction, error) {
	if err := c.enter("GetTransactionByHash"); err != nil {
		return nil, err
	}
	return c.Transactions[strings.ToLower(hash)], nil
}

// GetBalance returns the stored balance, or zero.
func (c *RPCClient) GetBalance(_ context.Context, address string) (*big.Int, error) {
	if err := c.enter("GetBalance"); err != nil {
		return nil, err
	}
	if b, ok := c.Balances[strings.ToLower(address)]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

// GetCode returns the stored bytecode, or "0x".
func (c *RPCClient) GetCode(_ context.Context, address string) (string, error) {
	if err := c.enter("GetCode"); err != nil {
		return "", err
	}
	if code, ok := c.Code[strings.ToLower(address)]; ok {
		return code, nil
	}
	return "0x", nil
}

// AddBlock adds a block to the stub store.
func (c *RPCClient) AddBlock(block *evm.Block) {
	c.Blocks[block.Number] = block
}

// AddTransaction adds a transaction to the stub store.
func (c *RPCClient) AddTransaction(tx *evm.Transaction) {
	c.Transactions[strings.ToLower(tx.Hash)] = tx
}

// SetBalance sets the balance for an address.
func (c *RPCClient) SetBalance(address string, wei *big.Int) {
	c.Balances[strings.ToLower(address)] = wei
}

// SetCode sets the bytecode for an address.
func (c *RPCClient) SetCode(address, code string) {
	c.Code[strings.ToLower(address)] = code
}

// CallCount returns how many times method was invoked.
func (c *RPCClient) CallCount(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Calls[method]
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

var _ evm.RPCClient = (*RPCClient)(nil)
