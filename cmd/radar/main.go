// Package main runs the radar HTTP service: the live pool feed, risk
// scoring, deep scans and the watchlist.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"base-signal-radar/internal/api"
	"base-signal-radar/internal/config"
	"base-signal-radar/internal/deepscan"
	"base-signal-radar/internal/evm"
	"base-signal-radar/internal/explorer"
	"base-signal-radar/internal/feed"
	"base-signal-radar/internal/ingestion"
	"base-signal-radar/internal/normalization"
	"base-signal-radar/internal/pairsearch"
	"base-signal-radar/internal/scoring"
	"base-signal-radar/internal/storage"
	"base-signal-radar/internal/storage/memory"
	pgstore "base-signal-radar/internal/storage/postgres"
)

func main() {
	// Parse flags (env vars as defaults; non-empty values override the config file)
	configPath := flag.String("config", os.Getenv("RADAR_CONFIG"), "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides server.addr)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides storage.postgres_dsn)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory watchlist storage instead of PostgreSQL")
	flag.Parse()

	logger := log.New(os.Stdout, "[radar] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *postgresDSN != "" {
		cfg.Storage.PostgresDSN = *postgresDSN
		cfg.Storage.UseMemory = false
	}
	if *useMemory {
		cfg.Storage.UseMemory = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rpc, closeRPC, err := evm.Dial(ctx, cfg.RPC.Endpoint,
		evm.WithTimeout(cfg.RPC.Timeout),
		evm.WithMaxRetries(cfg.RPC.MaxRetries),
	)
	if err != nil {
		logger.Fatalf("Failed to connect to RPC: %v", err)
	}
	defer closeRPC()

	exp := explorer.NewHTTPClient(cfg.Explorer.APIKey,
		explorer.WithBaseURL(cfg.Explorer.BaseURL),
		explorer.WithTimeout(cfg.Explorer.Timeout),
		explorer.WithMaxRetries(cfg.Explorer.MaxRetries),
	)

	source, err := createSource(cfg, rpc, exp, logger)
	if err != nil {
		logger.Fatalf("Failed to create feed source: %v", err)
	}

	watchlist, cleanup, err := createWatchlist(ctx, cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to create watchlist store: %v", err)
	}
	defer cleanup()

	engine := scoring.NewEngine(cfg.Trust.KnownExchanges)
	srv := api.New(api.Options{
		Feed: feed.New(feed.Options{
			Source: source,
			Engine: engine,
			Logger: logger,
		}),
		Scanner: deepscan.New(deepscan.Options{
			RPC:      rpc,
			Explorer: exp,
			Config:   cfg.DeepScan,
			Logger:   logger,
		}),
		Engine:         engine,
		Watchlist:      watchlist,
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("Starting HTTP server on %s (sources: %v)", cfg.Server.Addr, cfg.Feed.Sources)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
	case err := <-errCh:
		logger.Printf("HTTP server error: %v", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("Graceful shutdown failed: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createSource builds the live sources in configured order. A nil source
// means the feed always serves samples.
func createSource(cfg config.Config, rpc evm.RPCClient, exp explorer.Client, logger *log.Logger) (ingestion.Source, error) {
	norm := normalization.New(cfg.Trust, time.Now)

	var sources []ingestion.Source
	for _, name := range cfg.Feed.Sources {
		switch name {
		case "pairsearch":
			searcher := pairsearch.NewHTTPClient(
				pairsearch.WithBaseURL(cfg.PairSearch.BaseURL),
				pairsearch.WithChainID(cfg.PairSearch.ChainID),
				pairsearch.WithTimeout(cfg.PairSearch.Timeout),
			)
			sources = append(sources, ingestion.NewPairSearchSource(ingestion.PairSearchSourceOptions{
				Searcher:   searcher,
				Explorer:   exp,
				Normalizer: norm,
				Queries:    cfg.PairSearch.Queries,
				Verify:     cfg.PairSearch.EnrichVerification,
				Logger:     logger,
			}))
		case "logs":
			opts := ingestion.LogSourceOptions{
				RPC:            rpc,
				Normalizer:     norm,
				Topic:          cfg.Logs.PoolCreatedTopic,
				Factories:      factoryAddresses(cfg.Trust),
				LookbackBlocks: cfg.Logs.LookbackBlocks,
				MaxPools:       cfg.Logs.MaxPools,
				Concurrency:    cfg.Logs.Concurrency,
				Logger:         logger,
			}
			if cfg.Logs.EnrichExplorer {
				opts.Explorer = exp
			}
			sources = append(sources, ingestion.NewLogSource(opts))
		default:
			return nil, fmt.Errorf("unknown feed source %q", name)
		}
	}
	if len(sources) == 0 {
		logger.Println("No feed sources configured, serving samples only")
		return nil, nil
	}
	return ingestion.NewFirstNonEmpty(logger, sources...), nil
}

// factoryAddresses returns the configured factory addresses in stable order.
func factoryAddresses(t config.Trust) []string {
	out := make([]string, 0, len(t.Factories))
	for addr := range t.Factories {
		out = append(out, addr)
	}
	sort.Strings(out)
	return out
}

// createWatchlist creates the watchlist store.
func createWatchlist(ctx context.Context, cfg config.StorageConfig) (storage.WatchlistStore, func(), error) {
	if cfg.UseMemory {
		return memory.NewWatchlistStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pgstore.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return pgstore.NewWatchlistStore(pool), pool.Close, nil
}
