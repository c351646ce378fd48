package api

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"base-signal-radar/internal/domain"
	"base-signal-radar/internal/storage"
)

// watchUpdate is a partial update; absent flags keep their stored value.
type watchUpdate struct {
	Tracked *bool `json:"tracked"`
	Alert   *bool `json:"alert"`
}

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	if !s.requireWatchlist(w) {
		return
	}
	entries, err := s.watchlist.List(r.Context())
	if err != nil {
		s.logger.Printf("list watchlist: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list watchlist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(entries),
		"data":    entries,
	})
}

func (s *Server) handleGetWatchEntry(w http.ResponseWriter, r *http.Request) {
	if !s.requireWatchlist(w) {
		return
	}
	pairID, ok := pairIDParam(w, r)
	if !ok {
		return
	}
	entry, err := s.watchlist.Get(r.Context(), pairID)
	if err != nil {
		s.storageError(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": entry})
}

func (s *Server) handlePutWatchEntry(w http.ResponseWriter, r *http.Request) {
	if !s.requireWatchlist(w) {
		return
	}
	pairID, ok := pairIDParam(w, r)
	if !ok {
		return
	}

	var upd watchUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	patch := domain.WatchPatch{Tracked: upd.Tracked, Alert: upd.Alert, UpdatedAt: s.now().UnixMilli()}
	if patch.Empty() {
		writeError(w, http.StatusBadRequest, "one of tracked or alert is required")
		return
	}

	entry, err := s.watchlist.Patch(r.Context(), pairID, patch)
	if err != nil {
		s.storageError(w, "patch", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": entry})
}

func (s *Server) handleDeleteWatchEntry(w http.ResponseWriter, r *http.Request) {
	if !s.requireWatchlist(w) {
		return
	}
	pairID, ok := pairIDParam(w, r)
	if !ok {
		return
	}
	if err := s.watchlist.Delete(r.Context(), pairID); err != nil {
		s.storageError(w, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (s *Server) requireWatchlist(w http.ResponseWriter) bool {
	if s.watchlist == nil {
		writeError(w, http.StatusServiceUnavailable, "watchlist storage is not configured")
		return false
	}
	return true
}

func (s *Server) storageError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "watchlist entry not found")
	case errors.Is(err, storage.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Printf("watchlist %s: %v", op, err)
		writeError(w, http.StatusInternalServerError, "watchlist storage failed")
	}
}

func pairIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "pairID"))
	if err != nil || id == "" {
		writeError(w, http.StatusBadRequest, "invalid pair id")
		return "", false
	}
	return id, true
}
