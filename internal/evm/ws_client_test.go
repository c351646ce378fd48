package evm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsServer answers each request with handle's result, or drops the
// connection when handle returns errDrop.
func wsServer(t *testing.T, handle func(req rpcRequest) (interface{}, error)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req rpcRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				t.Errorf("unmarshal request: %v", err)
				return
			}
			result, err := handle(req)
			if errors.Is(err, errDrop) {
				return
			}
			resp := map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  result,
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))
}

var errDrop = errors.New("drop connection")

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWSClient_Connect(t *testing.T) {
	server := wsServer(t, func(req rpcRequest) (interface{}, error) { return nil, nil })
	defer server.Close()

	client, err := NewWSClient(context.Background(), wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	if client.closed.Load() {
		t.Error("client should not be closed")
	}
}

func TestWSClient_Call(t *testing.T) {
	server := wsServer(t, func(req rpcRequest) (interface{}, error) {
		switch req.Method {
		case "eth_blockNumber":
			return "0x10", nil
		case "eth_getCode":
			return "0x", nil
		}
		return nil, nil
	})
	defer server.Close()

	client, err := NewWSClient(context.Background(), wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := client.BlockNumber(ctx)
	if err != nil {
		t.Fatalf("BlockNumber: %v", err)
	}
	if n != 16 {
		t.Errorf("expected 16, got %d", n)
	}

	code, err := client.GetCode(ctx, "0xeoa")
	if err != nil {
		t.Fatalf("GetCode: %v", err)
	}
	if HasCode(code) {
		t.Errorf("expected no code, got %q", code)
	}
}

func TestWSClient_PendingFailsOnDisconnect(t *testing.T) {
	server := wsServer(t, func(req rpcRequest) (interface{}, error) {
		return nil, errDrop
	})
	defer server.Close()

	cfg := DefaultWSConfig()
	cfg.ReconnectDelay = 10 * time.Millisecond
	client, err := NewWSClient(context.Background(), wsURL(server), &cfg)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = client.BlockNumber(ctx)
	if !errors.Is(err, ErrClientClosed) {
		t.Errorf("expected ErrClientClosed, got %v", err)
	}
}

func TestWSClient_Close(t *testing.T) {
	server := wsServer(t, func(req rpcRequest) (interface{}, error) { return nil, nil })
	defer server.Close()

	client, err := NewWSClient(context.Background(), wsURL(server), nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	// Second close is a no-op
	if err := client.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if _, err := client.BlockNumber(context.Background()); !errors.Is(err, ErrClientClosed) {
		t.Errorf("expected ErrClientClosed after close, got %v", err)
	}
}

func TestWSClient_CallTimeoutWithoutDeadline(t *testing.T) {
	release := make(chan struct{})
	server := wsServer(t, func(req rpcRequest) (interface{}, error) {
		<-release
		return "0x1", nil
	})
	defer server.Close()
	defer close(release)

	cfg := DefaultWSConfig()
	cfg.CallTimeout = 50 * time.Millisecond
	client, err := NewWSClient(context.Background(), wsURL(server), &cfg)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	_, err = client.BlockNumber(context.Background())
	if err == nil || !strings.Contains(err.Error(), "timeout after") {
		t.Errorf("expected call timeout, got %v", err)
	}
}

func TestWSClient_ContextDeadlineOverridesCallTimeout(t *testing.T) {
	server := wsServer(t, func(req rpcRequest) (interface{}, error) {
		time.Sleep(150 * time.Millisecond)
		return "0x2a", nil
	})
	defer server.Close()

	cfg := DefaultWSConfig()
	cfg.CallTimeout = 20 * time.Millisecond
	client, err := NewWSClient(context.Background(), wsURL(server), &cfg)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	n, err := client.BlockNumber(ctx)
	if err != nil {
		t.Fatalf("BlockNumber: %v", err)
	}
	if n != 42 {
		t.Errorf("expected 42, got %d", n)
	}
}

func TestDial_WebSocketUsesTimeoutOption(t *testing.T) {
	server := wsServer(t, func(req rpcRequest) (interface{}, error) { return "0x1", nil })
	defer server.Close()

	client, closeFn, err := Dial(context.Background(), wsURL(server), WithTimeout(7*time.Second), WithMaxRetries(9))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer closeFn()

	ws, ok := client.(*WSClient)
	if !ok {
		t.Fatalf("expected *WSClient, got %T", client)
	}
	if ws.config.CallTimeout != 7*time.Second {
		t.Errorf("CallTimeout = %v, want 7s", ws.config.CallTimeout)
	}
}

func TestDial_HTTPKeepsOptions(t *testing.T) {
	client, closeFn, err := Dial(context.Background(), "http://127.0.0.1:1", WithMaxRetries(1))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close: %v", err)
	}
	h, ok := client.(*HTTPClient)
	if !ok {
		t.Fatalf("expected *HTTPClient, got %T", client)
	}
	if h.maxRetries != 1 {
		t.Errorf("maxRetries = %d, want 1", h.maxRetries)
	}
}
