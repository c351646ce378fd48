// Package main runs a one-shot deep scan for a contract address and prints
// the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"base-signal-radar/internal/config"
	"base-signal-radar/internal/deepscan"
	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/evm"
	"base-signal-radar/internal/explorer"
)

func main() {
	configPath := flag.String("config", os.Getenv("RADAR_CONFIG"), "Path to YAML config file")
	address := flag.String("address", "", "Contract address to scan (0x + 40 hex)")
	pair := flag.String("pair", "", "Optional pair label echoed in details")
	timeout := flag.Duration("timeout", 30*time.Second, "Overall scan timeout")
	verbose := flag.Bool("verbose", false, "Log lookup failures to stderr")
	flag.Parse()

	if *address == "" && flag.NArg() > 0 {
		*address = flag.Arg(0)
	}
	if *address == "" {
		fmt.Fprintln(os.Stderr, "Error: --address is required")
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "[deepscan] ", log.LstdFlags)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rpc, closeRPC, err := evm.Dial(ctx, cfg.RPC.Endpoint,
		evm.WithTimeout(cfg.RPC.Timeout),
		evm.WithMaxRetries(cfg.RPC.MaxRetries),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to RPC: %v\n", err)
		os.Exit(1)
	}
	defer closeRPC()

	agg := deepscan.New(deepscan.Options{
		RPC: rpc,
		Explorer: explorer.NewHTTPClient(cfg.Explorer.APIKey,
			explorer.WithBaseURL(cfg.Explorer.BaseURL),
			explorer.WithTimeout(cfg.Explorer.Timeout),
			explorer.WithMaxRetries(cfg.Explorer.MaxRetries),
		),
		Config: cfg.DeepScan,
		Logger: logger,
	})

	res, err := agg.Scan(ctx, domain.DeepScanRequest{ContractAddress: *address, PairLabel: *pair})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, deepscan.ErrInvalidAddress) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing result: %v\n", err)
		os.Exit(1)
	}
}
