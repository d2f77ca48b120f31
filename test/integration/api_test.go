package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/tank-cascade/internal/api"
	"github.com/eugenenazirov/tank-cascade/internal/application"
	"github.com/eugenenazirov/tank-cascade/internal/calculator"
	"github.com/eugenenazirov/tank-cascade/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage()
	calc := calculator.New()
	handler := api.NewHandler(calc, store)
	logger := zaptest.NewLogger(t)
	return application.BuildRootHandler(api.NewRouter(handler, logger))
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

type timings struct {
	SpillTime int64 `json:"spillTime"`
	FullTime  int64 `json:"fullTime"`
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	capacities := []int64{100000000, 99999999, 10000000, 1000000, 900000, 90000, 9000, 800, 80, 777}
	system := map[string]any{"tankCount": 10, "inflowRate": 7, "capacities": capacities}
	payload, _ := json.Marshal(system)

	rec = performRequest(t, handler, http.MethodPost, "/api/timings", payload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from timings, got %d", rec.Code)
	}
	var direct timings
	if err := json.NewDecoder(rec.Body).Decode(&direct); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if direct.SpillTime != 61 || direct.FullTime != 14285714 {
		t.Fatalf("unexpected timings %+v", direct)
	}

	rec = performRequest(t, handler, http.MethodPut, "/api/systems/reservoir", payload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from put, got %d", rec.Code)
	}
	etag := rec.Header().Get("ETag")

	rec = performRequest(t, handler, http.MethodGet, "/api/systems/reservoir/timings", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from stored timings, got %d", rec.Code)
	}
	var stored timings
	if err := json.NewDecoder(rec.Body).Decode(&stored); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stored != direct {
		t.Fatalf("stored timings %+v differ from direct %+v", stored, direct)
	}

	rec = performRequest(t, handler, http.MethodGet, "/api/systems/reservoir/timings", nil, map[string]string{"If-None-Match": etag})
	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304 for unchanged system, got %d", rec.Code)
	}

	batch, _ := json.Marshal(map[string]any{"systems": []any{system, map[string]any{"tankCount": 0, "inflowRate": 1}}})
	rec = performRequest(t, handler, http.MethodPost, "/api/timings/batch", batch, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from batch, got %d", rec.Code)
	}
	var batchResp struct {
		Results []struct {
			SpillTime *int64 `json:"spillTime"`
			Error     string `json:"error"`
		} `json:"results"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&batchResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(batchResp.Results) != 2 || batchResp.Results[0].SpillTime == nil || *batchResp.Results[0].SpillTime != 61 {
		t.Fatalf("unexpected batch results %+v", batchResp.Results)
	}
	if batchResp.Results[1].Error == "" {
		t.Fatalf("expected second batch entry to fail")
	}
}
