package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/eugenenazirov/tank-cascade/internal/calculator"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeValidationError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:      "Invalid tank system",
		Details:    err.Error(),
		Violations: violations(err),
	})
}

func writeCalculationError(w http.ResponseWriter, err error) {
	if errors.Is(err, calculator.ErrInvalidArgument) {
		writeError(w, http.StatusBadRequest, "Invalid tank system", err.Error())
		return
	}
	writeInternalError(w, err)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
