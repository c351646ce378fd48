package api

import (
	"context"
	"errors"
	"net/http"

	"base-signal-radar/internal/classify"
	"base-signal-radar/internal/deepscan"
	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/evm"
	"base-signal-radar/internal/feed"
	"base-signal-radar/internal/scoring"
)

// radarItem is a feed item with display labels.
type radarItem struct {
	domain.FeedItem
	DeployerShort  string `json:"deployerShort"`
	LiquidityLabel string `json:"liquidityLabel"`
	AgeLabel       string `json:"ageLabel"`
	AnomalyLabel   string `json:"anomalyLabel"`
}

type radarResponse struct {
	Success   bool              `json:"success"`
	Count     int               `json:"count"`
	Total     int               `json:"total"`
	Timestamp int64             `json:"timestamp"`
	Data      []radarItem       `json:"data"`
	Source    domain.Provenance `json:"source"`
}

// handleRadar serves the feed, optionally narrowed by ?q= and ?level=.
func (s *Server) handleRadar(w http.ResponseWriter, r *http.Request) {
	tier, err := feed.ParseTier(r.URL.Query().Get("level"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	query := feed.Query{Text: r.URL.Query().Get("q"), Tier: tier}

	built := s.feed.Build(r.Context())
	matched := feed.Filter(built.Items, query)

	items := make([]radarItem, len(matched))
	for i, it := range matched {
		items[i] = radarItem{
			FeedItem:       it,
			DeployerShort:  evm.ShortAddress(it.DeployerAddress),
			LiquidityLabel: FormatLiquidity(it.LiquidityUSD),
			AgeLabel:       FormatAge(it.AgeMinutes),
			AnomalyLabel:   it.Anomaly.Label(),
		}
	}

	writeJSON(w, http.StatusOK, radarResponse{
		Success:   true,
		Count:     len(items),
		Total:     built.Count,
		Timestamp: built.Timestamp,
		Data:      items,
		Source:    built.Source,
	})
}

type riskResponse struct {
	Success bool `json:"success"`
	domain.ScoreResult
	Anomaly     domain.AnomalyType     `json:"anomalyType"`
	DeepScan    *domain.DeepScanResult `json:"deepScan"`
	DeepScanErr string                 `json:"deepScanError,omitempty"`
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	var req domain.ScoreRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	rec, err := scoring.FromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := riskResponse{
		Success:     true,
		ScoreResult: s.engine.Evaluate(rec),
		Anomaly:     classify.Anomaly(rec),
	}

	if req.ContractAddress != "" && s.scanner != nil {
		res, err := s.scanner.Scan(r.Context(), domain.DeepScanRequest{ContractAddress: req.ContractAddress})
		switch {
		case errors.Is(err, deepscan.ErrInvalidAddress):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			s.logger.Printf("deep scan for %s failed: %v", req.ContractAddress, err)
			resp.DeepScanErr = err.Error()
		default:
			resp.DeepScan = res
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type deepScanResponse struct {
	Success bool `json:"success"`
	*domain.DeepScanResult
}

func (s *Server) handleDeepScan(w http.ResponseWriter, r *http.Request) {
	if s.scanner == nil {
		writeError(w, http.StatusServiceUnavailable, "deep scan is not configured")
		return
	}

	var req domain.DeepScanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	res, err := s.scanner.Scan(r.Context(), req)
	if err != nil {
		writeError(w, scanErrorStatus(err), err.Error())
		if !errors.Is(err, deepscan.ErrInvalidAddress) {
			s.logger.Printf("deep scan for %s failed: %v", req.ContractAddress, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, deepScanResponse{Success: true, DeepScanResult: res})
}

func scanErrorStatus(err error) int {
	switch {
	case errors.Is(err, deepscan.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
