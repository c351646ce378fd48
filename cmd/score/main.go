// Package main scores a single signal from a JSON request, or prints the
// scored sample feed.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"base-signal-radar/internal/classify"
	"base-signal-radar/internal/config"
	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/feed"
	"base-signal-radar/internal/scoring"
)

// result is the CLI output for one scored request.
type result struct {
	domain.ScoreResult
	Anomaly domain.AnomalyType `json:"anomalyType"`
}

func main() {
	configPath := flag.String("config", os.Getenv("RADAR_CONFIG"), "Path to YAML config file (for known exchanges)")
	file := flag.String("file", "-", "Score request JSON file, - for stdin")
	samples := flag.Bool("samples", false, "Print the scored sample feed instead of reading a request")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	engine := scoring.NewEngine(cfg.Trust.KnownExchanges)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if *samples {
		items := feed.Assemble(feed.Samples(time.Now()), engine)
		if err := enc.Encode(items); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing result: %v\n", err)
			os.Exit(1)
		}
		return
	}

	req, err := readRequest(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading request: %v\n", err)
		os.Exit(2)
	}

	rec, err := scoring.FromRequest(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	out := result{
		ScoreResult: engine.Evaluate(rec),
		Anomaly:     classify.Anomaly(rec),
	}
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing result: %v\n", err)
		os.Exit(1)
	}
}

func readRequest(path string) (domain.ScoreRequest, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return domain.ScoreRequest{}, err
		}
		defer f.Close()
		r = f
	}

	var req domain.ScoreRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return domain.ScoreRequest{}, fmt.Errorf("decode: %w", err)
	}
	return req, nil
}
