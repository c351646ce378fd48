// Package stub provides an in-memory explorer.Client for tests.
package stub

import (
	"context"
	"strings"
	"sync"

	"base-signal-radar/internal/explorer"
)

// Client implements explorer.Client for testing. Lists are returned in
// stored order, truncated to the requested page size.
type Client struct {
	mu sync.Mutex

	Sources  map[string]*explorer.SourceCode
	Txs      map[string][]explorer.Tx
	TokenTxs map[string][]explorer.TokenTx

	// Err, when set, is returned by every call.
	Err error
	// MethodErrs overrides Err per method name (e.g. "TxList").
	MethodErrs map[string]error

	calls map[string]int
}

// NewClient creates a new stub explorer client.
func NewClient() *Client {
	return &Client{
		Sources:    make(map[string]*explorer.SourceCode),
		Txs:        make(map[string][]explorer.Tx),
		TokenTxs:   make(map[string][]explorer.TokenTx),
		MethodErrs: make(map[string]error),
		calls:      make(map[string]int),
	}
}

func (c *Client) enter(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[method]++
	if err, ok := c.MethodErrs[method]; ok {
		return err
	}
	return c.Err
}

// GetSourceCode returns the stored record, or an unverified one.
func (c *Client) GetSourceCode(_ context.Context, address string) (*explorer.SourceCode, error) {
	if err := c.enter("GetSourceCode"); err != nil {
		return nil, err
	}
	if s, ok := c.Sources[strings.ToLower(address)]; ok {
		cp := *s
		return &cp, nil
	}
	return &explorer.SourceCode{}, nil
}

// TxList returns stored transactions.
func (c *Client) TxList(_ context.Context, address string, opts explorer.ListOpts) ([]explorer.Tx, error) {
	if err := c.enter("TxList"); err != nil {
		return nil, err
	}
	txs := c.Txs[strings.ToLower(address)]
	if opts.Offset > 0 && opts.Offset < len(txs) {
		txs = txs[:opts.Offset]
	}
	return append([]explorer.Tx(nil), txs...), nil
}

// TokenTxList returns stored token transfers.
func (c *Client) TokenTxList(_ context.Context, address string, opts explorer.ListOpts) ([]explorer.TokenTx, error) {
	if err := c.enter("TokenTxList"); err != nil {
		return nil, err
	}
	txs := c.TokenTxs[strings.ToLower(address)]
	if opts.Offset > 0 && opts.Offset < len(txs) {
		txs = txs[:opts.Offset]
	}
	return append([]explorer.TokenTx(nil), txs...), nil
}

// SetVerified stores a verified source record for address.
func (c *Client) SetVerified(address, name, compiler string) {
	c.Sources[strings.ToLower(address)] = &explorer.SourceCode{
		SourceCode:      "contract " + name + " {}",
		ContractName:    name,
		CompilerVersion: compiler,
	}
}

// CallCount returns how many times method was invoked.
func (c *Client) CallCount(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

var _ explorer.Client = (*Client)(nil)
