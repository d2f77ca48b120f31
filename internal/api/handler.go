package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/eugenenazirov/tank-cascade/internal/calculator"
	"github.com/eugenenazirov/tank-cascade/internal/storage"
	"github.com/eugenenazirov/tank-cascade/internal/validation"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	defaultBatchMaxSystems = 64
	defaultBatchWorkers    = 4
	// A tank system at the largest accepted size encodes to about 1.2 MB.
	maxSystemBodyBytes = 2 << 20
	batchEnvelopeBytes = 64 << 10
)

// Handler wires calculator and storage dependencies into HTTP handlers.
type Handler struct {
	calculator calculator.Calculator
	storage    storage.Storage

	clock clock.PassiveClock

	batchMaxSystems int
	batchWorkers    int
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(c clock.PassiveClock) HandlerOption {
	return func(h *Handler) {
		h.clock = c
	}
}

// WithBatchLimits bounds the batch endpoint: at most maxSystems systems per
// request, evaluated by at most workers goroutines. Non-positive values keep
// the defaults.
func WithBatchLimits(maxSystems, workers int) HandlerOption {
	return func(h *Handler) {
		if maxSystems > 0 {
			h.batchMaxSystems = maxSystems
		}
		if workers > 0 {
			h.batchWorkers = workers
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(calc calculator.Calculator, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		calculator:      calc,
		storage:         store,
		clock:           clock.RealClock{},
		batchMaxSystems: defaultBatchMaxSystems,
		batchWorkers:    defaultBatchWorkers,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock.Now().UTC(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleTimings(w http.ResponseWriter, r *http.Request) {
	var req systemPayload
	if err := decodeJSON(w, r, &req, maxSystemBodyBytes); err != nil {
		writeDecodeError(w, err)
		return
	}

	system := req.toSystem()
	if err := validation.Validate(system); err != nil {
		writeValidationError(w, err)
		return
	}

	resp, err := h.evaluate(system)
	if err != nil {
		writeCalculationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleBatchTimings(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(w, r, &req, h.batchBodyLimit()); err != nil {
		writeDecodeError(w, err)
		return
	}

	if len(req.Systems) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid batch", "systems must contain at least one tank system")
		return
	}
	if len(req.Systems) > h.batchMaxSystems {
		writeError(w, http.StatusBadRequest, "Invalid batch",
			fmt.Sprintf("systems must contain at most %d tank systems, got %d", h.batchMaxSystems, len(req.Systems)),
			"Split the request into several smaller batches")
		return
	}

	results := make([]batchResult, len(req.Systems))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(h.batchWorkers)
	for i, payload := range req.Systems {
		i, system := i, payload.toSystem()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = h.evaluateBatchEntry(i, system)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusServiceUnavailable, "Request cancelled", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}

func (h *Handler) evaluateBatchEntry(index int, system calculator.TankSystem) batchResult {
	if err := validation.Validate(system); err != nil {
		return batchResult{Index: index, Error: err.Error(), Violations: violations(err)}
	}
	result, err := h.calculator.Timings(system)
	if err != nil {
		return batchResult{Index: index, Error: err.Error()}
	}
	spill, full := result.SpillTime, result.FullTime
	return batchResult{Index: index, SpillTime: &spill, FullTime: &full}
}

func (h *Handler) handleListSystems(w http.ResponseWriter, r *http.Request) {
	_ = r
	names, err := h.storage.Names()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, systemsResponse{Systems: names})
}

func (h *Handler) handleGetSystem(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	system, ok := h.lookupSystem(w, name)
	if !ok {
		return
	}

	fingerprint := storage.Fingerprint(system)
	if notModified(w, r, fingerprint) {
		return
	}

	resp := namedSystemResponse{
		Name:        name,
		Fingerprint: fingerprint,
		System:      payloadFromSystem(system),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutSystem(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req systemPayload
	if err := decodeJSON(w, r, &req, maxSystemBodyBytes); err != nil {
		writeDecodeError(w, err)
		return
	}

	system := req.toSystem()
	if err := h.storage.Put(name, system); err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidName):
			writeError(w, http.StatusBadRequest, "Invalid name", err.Error())
		case errors.Is(err, validation.ErrInvalidInput):
			writeValidationError(w, err)
		default:
			writeInternalError(w, err)
		}
		return
	}

	fingerprint := storage.Fingerprint(system)
	w.Header().Set("ETag", quoteETag(fingerprint))
	resp := namedSystemResponse{
		Name:        name,
		Fingerprint: fingerprint,
		System:      payloadFromSystem(system),
		Message:     "Tank system stored successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDeleteSystem(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.Delete(r.PathValue("name")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSystemTimings(w http.ResponseWriter, r *http.Request) {
	system, ok := h.lookupSystem(w, r.PathValue("name"))
	if !ok {
		return
	}

	if notModified(w, r, storage.Fingerprint(system)) {
		return
	}

	resp, err := h.evaluate(system)
	if err != nil {
		writeCalculationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) lookupSystem(w http.ResponseWriter, name string) (calculator.TankSystem, bool) {
	system, err := h.storage.Get(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", fmt.Sprintf("no tank system named %q", name),
				"Store it first with PUT /api/systems/{name}")
			return calculator.TankSystem{}, false
		}
		writeInternalError(w, err)
		return calculator.TankSystem{}, false
	}
	return system, true
}

func (h *Handler) evaluate(system calculator.TankSystem) (timingsResponse, error) {
	start := h.clock.Now()
	result, err := h.calculator.Timings(system)
	elapsed := h.clock.Since(start)
	if err != nil {
		return timingsResponse{}, err
	}

	return timingsResponse{
		SpillTime:         result.SpillTime,
		FullTime:          result.FullTime,
		TankCount:         system.TankCount,
		InflowRate:        system.InflowRate,
		Fingerprint:       storage.Fingerprint(system),
		CalculationTimeMs: elapsed.Milliseconds(),
	}, nil
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// batchBodyLimit admits batchMaxSystems systems of the largest accepted size.
func (h *Handler) batchBodyLimit() int64 {
	return int64(h.batchMaxSystems)*maxSystemBodyBytes + batchEnvelopeBytes
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request too large",
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			"Reduce the number of systems per request")
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
}

func notModified(w http.ResponseWriter, r *http.Request, fingerprint string) bool {
	etag := quoteETag(fingerprint)
	w.Header().Set("ETag", etag)
	if !etagMatches(r.Header.Get("If-None-Match"), etag) {
		return false
	}
	w.WriteHeader(http.StatusNotModified)
	return true
}

// etagMatches applies the weak comparison If-None-Match calls for: any listed
// tag, with or without the W/ prefix, or "*".
func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

func quoteETag(fingerprint string) string {
	return `"` + fingerprint + `"`
}

func violations(err error) []string {
	var verr *validation.Error
	if !errors.As(err, &verr) {
		return nil
	}
	out := make([]string, 0, len(verr.Violations()))
	for _, v := range verr.Violations() {
		out = append(out, v.Error())
	}
	return out
}
