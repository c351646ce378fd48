// Package api exposes the radar feed, risk scoring, deep scans and the
// watchlist over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/observability"
	"base-signal-radar/internal/scoring"
	"base-signal-radar/internal/storage"
)

const maxBodyBytes = 1 << 20

var errTrailingData = errors.New("unexpected data after JSON body")

// FeedBuilder produces the current feed. It never fails.
type FeedBuilder interface {
	Build(ctx context.Context) domain.Feed
}

// Scanner runs a deep scan for one contract address.
type Scanner interface {
	Scan(ctx context.Context, req domain.DeepScanRequest) (*domain.DeepScanResult, error)
}

// Options contains configuration for creating a Server.
type Options struct {
	Feed      FeedBuilder
	Scanner   Scanner
	Engine    *scoring.Engine
	Watchlist storage.WatchlistStore

	// RequestTimeout bounds each request. Zero disables the limit.
	RequestTimeout time.Duration
	Now            func() time.Time
	Logger         *log.Logger
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	feed      FeedBuilder
	scanner   Scanner
	engine    *scoring.Engine
	watchlist storage.WatchlistStore
	timeout   time.Duration
	now       func() time.Time
	logger    *log.Logger
}

// New creates a Server.
func New(opts Options) *Server {
	s := &Server{
		feed:      opts.Feed,
		scanner:   opts.Scanner,
		engine:    opts.Engine,
		watchlist: opts.Watchlist,
		timeout:   opts.RequestTimeout,
		now:       opts.Now,
		logger:    opts.Logger,
	}
	if s.engine == nil {
		s.engine = scoring.Default
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	return s
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: s.logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(metricsMiddleware)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", observability.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/radar", s.handleRadar)
		r.Post("/risk", s.handleRisk)
		r.Post("/deepscan", s.handleDeepScan)

		r.Route("/watchlist", func(r chi.Router) {
			r.Get("/", s.handleListWatchlist)
			r.Get("/{pairID}", s.handleGetWatchEntry)
			r.Put("/{pairID}", s.handlePutWatchEntry)
			r.Delete("/{pairID}", s.handleDeleteWatchEntry)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "ok",
	})
}
