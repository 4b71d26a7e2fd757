package api

import (
	"net/http"
	"time"
)

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if a.GetConfig == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "config provider unavailable"})
		return
	}

	cfg := a.GetConfig()
	if cfg == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "config unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, cfg)
}

type statsResponse struct {
	HistoryEnabled bool       `json:"history_enabled"`
	Evaluations    int        `json:"evaluations"`
	Batches        int        `json:"batches"`
	Today          int        `json:"today"`
	Tomorrow       int        `json:"tomorrow"`
	Failures       int        `json:"failures"`
	LastAt         *time.Time `json:"last_at,omitempty"`
	Subscribers    int        `json:"subscribers"`
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var resp statsResponse
	if a.Events != nil {
		resp.Subscribers = a.Events.Subscribers()
	}
	if a.Store != nil {
		stats, err := a.Store.GetStats(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get stats"})
			return
		}
		resp.HistoryEnabled = true
		resp.Evaluations = stats.Total
		resp.Batches = stats.Batches
		resp.Today = stats.Today
		resp.Tomorrow = stats.Tomorrow
		resp.Failures = stats.Failures
		resp.LastAt = stats.LastAt
	}

	writeJSON(w, http.StatusOK, resp)
}
