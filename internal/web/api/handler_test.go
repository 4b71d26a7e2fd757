package api

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/patrickspencer/nextrun/internal/config"
	"github.com/patrickspencer/nextrun/internal/realtime"
	"github.com/patrickspencer/nextrun/internal/schedule"
	"github.com/patrickspencer/nextrun/internal/store"
)

func newTestAPI(t *testing.T, withStore bool) (*API, *http.ServeMux) {
	t.Helper()

	a := &API{
		Events:    realtime.NewBroker(),
		GetConfig: config.Default,
		Reference: func() (schedule.TimeOfDay, error) { return schedule.MustTimeOfDay(10, 15), nil },
	}
	if withStore {
		st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "nextrun.db"))
		if err != nil {
			t.Fatalf("NewSQLiteStore: %v", err)
		}
		t.Cleanup(func() { st.Close() })
		a.Store = st
	}

	mux := http.NewServeMux()
	a.RegisterRoutes(mux)
	return a, mux
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	_, mux := newTestAPI(t, true)
	body := `{"reference":"16:10","lines":["30 1 /bin/run_me_daily","62 * /bin/bad"]}`
	rec := doRequest(t, mux, http.MethodPost, "/api/v1/evaluate", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp evaluateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Reference != "16:10" || resp.Mode != "compat" || resp.BatchID == "" {
		t.Fatalf("unexpected response header fields: %+v", resp)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if got := resp.Results[0]; got.Output != "01:30 tomorrow - /bin/run_me_daily" || got.Day != "tomorrow" || got.NextRun != "01:30" {
		t.Fatalf("unexpected first result %+v", got)
	}
	if got := resp.Results[1]; got.Error == "" || got.Output != "" {
		t.Fatalf("expected error result, got %+v", got)
	}

	list := doRequest(t, mux, http.MethodGet, "/api/v1/evaluations?batch="+resp.BatchID, "")
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", list.Code)
	}
	var evals []evaluationResponse
	if err := json.Unmarshal(list.Body.Bytes(), &evals); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(evals) != 2 || evals[0].Source != "api" {
		t.Fatalf("unexpected evaluations %+v", evals)
	}

	one := doRequest(t, mux, http.MethodGet, "/api/v1/evaluations/"+evals[1].ID, "")
	if one.Code != http.StatusOK || !strings.Contains(one.Body.String(), "run_me_daily") {
		t.Fatalf("unexpected get response %d: %s", one.Code, one.Body.String())
	}

	missing := doRequest(t, mux, http.MethodGet, "/api/v1/evaluations/nope", "")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.Code)
	}
}

func TestEvaluateDefaultsAndErrors(t *testing.T) {
	t.Parallel()

	_, mux := newTestAPI(t, false)

	rec := doRequest(t, mux, http.MethodPost, "/api/v1/evaluate", `{"lines":["* * /bin/run_some_time"]}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "10:15 today - /bin/run_some_time") {
		t.Fatalf("unexpected default-reference response %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, mux, http.MethodPost, "/api/v1/evaluate", `{"reference":"0 5","mode":"standard","lines":["0 5 /bin/x"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad reference, got %d", rec.Code)
	}

	rec = doRequest(t, mux, http.MethodPost, "/api/v1/evaluate", `{"reference":"16:10","mode":"standard","lines":["0 5 /bin/x"]}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "05:00 tomorrow - /bin/x") {
		t.Fatalf("unexpected standard-mode response %d: %s", rec.Code, rec.Body.String())
	}

	for _, tc := range []struct {
		body string
		code int
	}{
		{`not json`, http.StatusBadRequest},
		{`{"reference":"10:15"}`, http.StatusBadRequest},
		{`{"reference":"10:15","mode":"quartz","lines":["* * /bin/x"]}`, http.StatusBadRequest},
	} {
		rec := doRequest(t, mux, http.MethodPost, "/api/v1/evaluate", tc.body)
		if rec.Code != tc.code {
			t.Fatalf("body %s: expected %d, got %d", tc.body, tc.code, rec.Code)
		}
	}

	if rec := doRequest(t, mux, http.MethodGet, "/api/v1/evaluate", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if rec := doRequest(t, mux, http.MethodGet, "/api/v1/evaluations", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without history, got %d", rec.Code)
	}
}

func TestSystemEndpoints(t *testing.T) {
	t.Parallel()

	_, mux := newTestAPI(t, true)

	if rec := doRequest(t, mux, http.MethodGet, "/api/v1/health", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/config", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"on_error":"abort"`) {
		t.Fatalf("config: unexpected response %d: %s", rec.Code, rec.Body.String())
	}

	doRequest(t, mux, http.MethodPost, "/api/v1/evaluate", `{"reference":"16:10","lines":["45 * /bin/a","30 1 /bin/b"]}`)

	rec = doRequest(t, mux, http.MethodGet, "/api/v1/stats", "")
	var stats statsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if !stats.HistoryEnabled || stats.Evaluations != 2 || stats.Today != 1 || stats.Tomorrow != 1 || stats.Batches != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestEventsStream(t *testing.T) {
	t.Parallel()

	_, mux := newTestAPI(t, false)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET events: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	if line, err := reader.ReadString('\n'); err != nil || line != ": connected\n" {
		t.Fatalf("expected connected comment, got %q, %v", line, err)
	}

	post, err := http.Post(srv.URL+"/api/v1/evaluate", "application/json",
		strings.NewReader(`{"reference":"10:15","lines":["* * /bin/run_some_time"]}`))
	if err != nil {
		t.Fatalf("POST evaluate: %v", err)
	}
	post.Body.Close()

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if strings.HasPrefix(line, "data: ") {
			if !strings.Contains(line, "10:15 today - /bin/run_some_time") {
				t.Fatalf("unexpected event data %q", line)
			}
			return
		}
	}
}
