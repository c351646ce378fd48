package evm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func rpcServer(t *testing.T, handle func(req rpcRequest) interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  handle(req),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestHTTPClient_BlockNumber(t *testing.T) {
	server := rpcServer(t, func(req rpcRequest) interface{} {
		if req.Method != "eth_blockNumber" {
			t.Errorf("expected method eth_blockNumber, got %s", req.Method)
		}
		if req.Params == nil {
			t.Error("params must be an empty array, not null")
		}
		return "0x1b4"
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	n, err := client.BlockNumber(context.Background())
	if err != nil {
		t.Fatalf("BlockNumber: %v", err)
	}
	if n != 436 {
		t.Errorf("expected 436, got %d", n)
	}
}

func TestHTTPClient_GetLogs(t *testing.T) {
	server := rpcServer(t, func(req rpcRequest) interface{} {
		if req.Method != "eth_getLogs" {
			t.Errorf("expected method eth_getLogs, got %s", req.Method)
		}
		q, ok := req.Params[0].(map[string]interface{})
		if !ok {
			t.Fatalf("expected filter object, got %T", req.Params[0])
		}
		if q["fromBlock"] != "0x64" {
			t.Errorf("expected fromBlock 0x64, got %v", q["fromBlock"])
		}
		if q["toBlock"] != "latest" {
			t.Errorf("expected toBlock latest, got %v", q["toBlock"])
		}
		return []map[string]interface{}{
			{
				"address":         "0xfactory",
				"topics":          []string{"0xtopic", "0xtoken0", "0xtoken1"},
				"data":            "0x",
				"blockNumber":     "0x65",
				"transactionHash": "0xabc",
				"logIndex":        "0x2",
			},
		}
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	logs, err := client.GetLogs(context.Background(), LogFilter{FromBlock: 100, Topic0: []string{"0xtopic"}})
	if err != nil {
		t.Fatalf("GetLogs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	if logs[0].BlockNumber != 101 {
		t.Errorf("expected block 101, got %d", logs[0].BlockNumber)
	}
	if logs[0].LogIndex != 2 {
		t.Errorf("expected log index 2, got %d", logs[0].LogIndex)
	}
	if logs[0].TxHash != "0xabc" {
		t.Errorf("expected tx 0xabc, got %s", logs[0].TxHash)
	}
}

func TestHTTPClient_GetBlockByNumber(t *testing.T) {
	server := rpcServer(t, func(req rpcRequest) interface{} {
		if req.Method != "eth_getBlockByNumber" {
			t.Errorf("expected method eth_getBlockByNumber, got %s", req.Method)
		}
		return map[string]interface{}{
			"number":    "0x3039",
			"hash":      "0xblock",
			"timestamp": "0x6553f100",
		}
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	block, err := client.GetBlockByNumber(context.Background(), 12345)
	if err != nil {
		t.Fatalf("GetBlockByNumber: %v", err)
	}
	if block == nil {
		t.Fatal("expected block, got nil")
	}
	if block.Number != 12345 {
		t.Errorf("expected number 12345, got %d", block.Number)
	}
	if block.Timestamp != 1700000000 {
		t.Errorf("expected timestamp 1700000000, got %d", block.Timestamp)
	}
}

func TestHTTPClient_GetTransactionByHash_NotFound(t *testing.T) {
	server := rpcServer(t, func(req rpcRequest) interface{} {
		return nil
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	tx, err := client.GetTransactionByHash(context.Background(), "0xmissing")
	if err != nil {
		t.Fatalf("GetTransactionByHash: %v", err)
	}
	if tx != nil {
		t.Errorf("expected nil for not found, got %+v", tx)
	}
}

func TestHTTPClient_GetTransactionByHash(t *testing.T) {
	server := rpcServer(t, func(req rpcRequest) interface{} {
		return map[string]interface{}{
			"hash":        "0xabc",
			"from":        "0xdeployer",
			"to":          nil,
			"blockNumber": "0x10",
		}
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)

	tx, err := client.GetTransactionByHash(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("GetTransactionByHash: %v", err)
	}
	if tx.From != "0xdeployer" {
		t.Errorf("expected from 0xdeployer, got %s", tx.From)
	}
	if tx.To != "" {
		t.Errorf("contract creation should have empty to, got %s", tx.To)
	}
	if tx.BlockNumber != 16 {
		t.Errorf("expected block 16, got %d", tx.BlockNumber)
	}
}

func TestHTTPClient_GetBalanceAndCode(t *testing.T) {
	server := rpcServer(t, func(req rpcRequest) interface{} {
		switch req.Method {
		case "eth_getBalance":
			return "0xde0b6b3a7640000" // 1 ether
		case "eth_getCode":
			return "0x6080"
		}
		t.Errorf("unexpected method %s", req.Method)
		return nil
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	ctx := context.Background()

	bal, err := client.GetBalance(ctx, "0xabc")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if got := WeiToEther(bal, 4); got != "1.0000" {
		t.Errorf("expected 1.0000 ether, got %s", got)
	}

	code, err := client.GetCode(ctx, "0xabc")
	if err != nil {
		t.Fatalf("GetCode: %v", err)
	}
	if !HasCode(code) {
		t.Errorf("expected code, got %q", code)
	}
}

func TestHTTPClient_Retry(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := attempts.Add(1)
		if count < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  "0x3e7",
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL,
		WithMaxRetries(3),
		WithRetryDelay(10*time.Millisecond),
	)

	n, err := client.BlockNumber(context.Background())
	if err != nil {
		t.Fatalf("BlockNumber: %v", err)
	}
	if n != 999 {
		t.Errorf("expected 999, got %d", n)
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestHTTPClient_RPCError(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error": map[string]interface{}{
				"code":    -32602,
				"message": "invalid params",
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryDelay(time.Millisecond))

	_, err := client.BlockNumber(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected RPCError, got %T", err)
	}
	if rpcErr.Code != -32602 {
		t.Errorf("expected code -32602, got %d", rpcErr.Code)
	}
	if attempts.Load() != 1 {
		t.Errorf("RPC errors must not be retried, got %d attempts", attempts.Load())
	}
}

func TestHTTPClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := client.BlockNumber(ctx)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestDial_PicksTransport(t *testing.T) {
	client, closeFn, err := Dial(context.Background(), "https://mainnet.base.org")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer closeFn()

	if _, ok := client.(*HTTPClient); !ok {
		t.Errorf("expected *HTTPClient for https endpoint, got %T", client)
	}
}
