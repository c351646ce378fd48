package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"base-signal-radar/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.basescan.org/api"
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryDelay = 500 * time.Millisecond
)

// noTransactions is the message returned for empty list results.
const noTransactions = "No transactions found"

// HTTPClient implements Client over the explorer's REST API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *HTTPClient) {
		c.baseURL = u
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets the delay between retries.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates an explorer client. apiKey may be empty.
func NewHTTPClient(apiKey string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSourceCode returns verification info for a contract.
func (c *HTTPClient) GetSourceCode(ctx context.Context, address string) (*SourceCode, error) {
	var result []SourceCode
	err := c.get(ctx, url.Values{
		"module":  {"contract"},
		"action":  {"getsourcecode"},
		"address": {address},
	}, &result)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return &SourceCode{}, nil
	}
	return &result[0], nil
}

// TxList returns normal transactions for an address.
func (c *HTTPClient) TxList(ctx context.Context, address string, opts ListOpts) ([]Tx, error) {
	var result []Tx
	if err := c.get(ctx, listQuery("txlist", address, opts), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// TokenTxList returns ERC-20 transfer events involving an address.
func (c *HTTPClient) TokenTxList(ctx context.Context, address string, opts ListOpts) ([]TokenTx, error) {
	var result []TokenTx
	if err := c.get(ctx, listQuery("tokentx", address, opts), &result); err != nil {
		return nil, err
	}
	return result, nil
}

func listQuery(action, address string, opts ListOpts) url.Values {
	q := url.Values{
		"module":  {"account"},
		"action":  {action},
		"address": {address},
	}
	if opts.Sort != "" {
		q.Set("sort", string(opts.Sort))
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	return q
}

// envelope is the common explorer response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// get performs one API call with retries and decodes result into dst.
func (c *HTTPClient) get(ctx context.Context, q url.Values, dst interface{}) error {
	action := q.Get("action")
	start := time.Now()
	defer func() {
		observability.RecordExplorerLatency(action, time.Since(start).Seconds())
	}()

	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}
	endpoint := c.baseURL + "?" + q.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: unexpected status %d: %s", action, resp.StatusCode, string(body))
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return fmt.Errorf("%s: unmarshal response: %w", action, err)
		}

		if env.Status == "0" {
			if strings.HasPrefix(env.Message, noTransactions) {
				return nil
			}
			// Rate-limit notices arrive as status 0 with a string result.
			detail := resultString(env.Result)
			if strings.Contains(strings.ToLower(detail), "rate limit") {
				lastErr = fmt.Errorf("%s: %s", action, detail)
				continue
			}
			return fmt.Errorf("%w: %s: %s %s", ErrNoResult, action, env.Message, detail)
		}

		if err := json.Unmarshal(env.Result, dst); err != nil {
			return fmt.Errorf("%s: unmarshal result: %w", action, err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func resultString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)
