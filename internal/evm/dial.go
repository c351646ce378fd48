package evm

import (
	"context"
	"strings"
)

// Dial returns a WebSocket client for ws:// and wss:// endpoints and an
// HTTP client otherwise. The returned close function is never nil.
//
// On the WebSocket path WithTimeout becomes the per-call timeout; the retry
// and backoff options are ignored because a dropped connection is handled
// by reconnecting instead.
func Dial(ctx context.Context, endpoint string, opts ...ClientOption) (RPCClient, func() error, error) {
	if strings.HasPrefix(endpoint, "ws://") || strings.HasPrefix(endpoint, "wss://") {
		cfg := wsConfigFromOptions(opts...)
		ws, err := NewWSClient(ctx, endpoint, &cfg)
		if err != nil {
			return nil, nil, err
		}
		return ws, ws.Close, nil
	}
	return NewHTTPClient(endpoint, opts...), func() error { return nil }, nil
}

// wsConfigFromOptions maps HTTP client options onto a WebSocket config.
func wsConfigFromOptions(opts ...ClientOption) WSClientConfig {
	cfg := DefaultWSConfig()
	h := NewHTTPClient("", opts...)
	if h.client != nil && h.client.Timeout > 0 {
		cfg.CallTimeout = h.client.Timeout
	}
	return cfg
}
