package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/patrickspencer/nextrun/internal/config"
	"github.com/patrickspencer/nextrun/internal/realtime"
	"github.com/patrickspencer/nextrun/internal/schedule"
	"github.com/patrickspencer/nextrun/internal/store"
)

// API holds dependencies for all API handlers.
type API struct {
	// Store is optional; history endpoints answer 503 without it.
	Store     store.EvaluationStore
	Events    *realtime.Broker
	GetConfig func() *config.Config
	// Reference supplies the reference time when a request omits one.
	Reference func() (schedule.TimeOfDay, error)
	Mode      schedule.Mode
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/evaluate", a.handleEvaluate)
	mux.HandleFunc("/api/v1/evaluations/", a.routeEvaluations)
	mux.HandleFunc("/api/v1/evaluations", a.handleListEvaluations)
	mux.HandleFunc("/api/v1/events", a.handleEvents)
	mux.HandleFunc("/api/v1/config", a.handleConfig)
	mux.HandleFunc("/api/v1/health", a.handleHealth)
	mux.HandleFunc("/api/v1/stats", a.handleStats)
}

// routeEvaluations dispatches /api/v1/evaluations/{id} requests.
func (a *API) routeEvaluations(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/evaluations/"), "/")
	if id == "" {
		a.handleListEvaluations(w, r)
		return
	}
	if strings.Contains(id, "/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	a.handleGetEvaluation(w, r, id)
}

func statusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, schedule.ErrInvalidTimeFormat),
		errors.Is(err, schedule.ErrInvalidExpressionFormat),
		errors.Is(err, schedule.ErrTimeRange):
		return http.StatusBadRequest
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "unknown"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to write JSON response: %v", err)
	}
}
