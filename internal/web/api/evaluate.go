package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/patrickspencer/nextrun/internal/batch"
	"github.com/patrickspencer/nextrun/internal/schedule"
)

type evaluateRequest struct {
	Reference string   `json:"reference"`
	Mode      string   `json:"mode"`
	Lines     []string `json:"lines"`
}

type evaluateResult struct {
	Line    string `json:"line"`
	NextRun string `json:"next_run,omitempty"`
	Day     string `json:"day,omitempty"`
	Command string `json:"command,omitempty"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

type evaluateResponse struct {
	BatchID   string           `json:"batch_id"`
	Reference string           `json:"reference"`
	Mode      string           `json:"mode"`
	Results   []evaluateResult `json:"results"`
}

func (a *API) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req evaluateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 2*1024*1024)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if len(req.Lines) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lines are required"})
		return
	}

	ref, err := a.reference(req.Reference)
	if err != nil {
		writeJSON(w, statusFromError(err), map[string]string{"error": err.Error()})
		return
	}

	mode := a.Mode
	if strings.TrimSpace(req.Mode) != "" {
		mode, err = schedule.ParseMode(req.Mode)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
	}

	p := &batch.Processor{
		Reference: ref,
		Mode:      mode,
		Source:    "api",
	}
	if a.Store != nil {
		p.Recorder = a.Store
	}
	if a.Events != nil {
		p.Publisher = a.Events
	}

	lines := make([]string, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = strings.TrimSpace(line)
	}
	batchID, results := p.EvaluateAll(r.Context(), lines)

	resp := evaluateResponse{
		BatchID:   batchID,
		Reference: ref.String(),
		Mode:      mode.String(),
		Results:   make([]evaluateResult, 0, len(results)),
	}
	for _, res := range results {
		out := evaluateResult{Line: res.Line}
		if res.Err != nil {
			out.Error = res.Err.Error()
		} else {
			out.NextRun = res.Record.NextRun.String()
			out.Day = res.Record.Day.String()
			out.Command = res.Record.Command
			out.Output = res.Record.String()
		}
		resp.Results = append(resp.Results, out)
	}

	log.Printf("evaluated %d line(s) at %s (batch=%s)", len(results), ref, batchID)
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) reference(s string) (schedule.TimeOfDay, error) {
	if strings.TrimSpace(s) != "" {
		return schedule.ParseReference(s)
	}
	if a.Reference == nil {
		return schedule.TimeOfDay{}, errors.New("reference is required")
	}
	return a.Reference()
}
