package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/patrickspencer/nextrun/internal/store"
)

type evaluationResponse struct {
	ID        string    `json:"id"`
	BatchID   string    `json:"batch_id"`
	Reference string    `json:"reference"`
	Mode      string    `json:"mode"`
	Line      string    `json:"line"`
	NextRun   string    `json:"next_run,omitempty"`
	Day       string    `json:"day,omitempty"`
	Command   string    `json:"command,omitempty"`
	Output    string    `json:"output,omitempty"`
	ErrorMsg  string    `json:"error_msg,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func evaluationToResponse(e *store.Evaluation) evaluationResponse {
	return evaluationResponse{
		ID:        e.ID,
		BatchID:   e.BatchID,
		Reference: e.Reference,
		Mode:      e.Mode,
		Line:      e.Line,
		NextRun:   e.NextRun,
		Day:       e.Day,
		Command:   e.Command,
		Output:    e.Output(),
		ErrorMsg:  e.ErrorMsg,
		Source:    e.Source,
		CreatedAt: e.CreatedAt,
	}
}

func (a *API) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if a.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "history is disabled"})
		return
	}

	q := r.URL.Query()
	opts := store.ListOpts{
		BatchID: q.Get("batch"),
		Limit:   50,
	}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			opts.Offset = n
		}
	}

	evals, err := a.Store.ListEvaluations(r.Context(), opts)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list evaluations"})
		return
	}

	result := make([]evaluationResponse, 0, len(evals))
	for _, e := range evals {
		result = append(result, evaluationToResponse(e))
	}

	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleGetEvaluation(w http.ResponseWriter, r *http.Request, id string) {
	if a.Store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "history is disabled"})
		return
	}

	e, err := a.Store.GetEvaluation(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get evaluation"})
		return
	}
	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "evaluation not found"})
		return
	}

	writeJSON(w, http.StatusOK, evaluationToResponse(e))
}
