package pairsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"base-signal-radar/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.dexscreener.com"
	DefaultTimeout = 10 * time.Second
	DefaultChainID = "base"
)

// Searcher finds trading pairs by free-text query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Pair, error)
}

// HTTPClient implements Searcher over the DexScreener REST API.
type HTTPClient struct {
	baseURL string
	chainID string
	client  *http.Client
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithChainID keeps only pairs on the given chain. Empty keeps all.
func WithChainID(id string) ClientOption {
	return func(c *HTTPClient) {
		c.chainID = id
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a pair search client.
func NewHTTPClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: DefaultBaseURL,
		chainID: DefaultChainID,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns pairs matching query on the configured chain.
func (c *HTTPClient) Search(ctx context.Context, query string) ([]Pair, error) {
	start := time.Now()
	defer func() {
		observability.RecordPairSearchLatency(time.Since(start).Seconds())
	}()

	endpoint := c.baseURL + "/latest/dex/search?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search %q: unexpected status %d: %s", query, resp.StatusCode, string(body))
	}

	var out SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("search %q: decode: %w", query, err)
	}

	if c.chainID == "" {
		return out.Pairs, nil
	}
	pairs := make([]Pair, 0, len(out.Pairs))
	for _, p := range out.Pairs {
		if strings.EqualFold(p.ChainID, c.chainID) {
			pairs = append(pairs, p)
		}
	}
	return pairs, nil
}

// Compile-time interface check.
var _ Searcher = (*HTTPClient)(nil)
