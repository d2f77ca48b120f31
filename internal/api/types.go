package api

import (
	"time"

	"github.com/eugenenazirov/tank-cascade/internal/calculator"
)

type systemPayload struct {
	TankCount  int     `json:"tankCount"`
	InflowRate int64   `json:"inflowRate"`
	Capacities []int64 `json:"capacities"`
}

func (p systemPayload) toSystem() calculator.TankSystem {
	return calculator.TankSystem{
		TankCount:  p.TankCount,
		InflowRate: p.InflowRate,
		Capacities: p.Capacities,
	}
}

func payloadFromSystem(system calculator.TankSystem) systemPayload {
	return systemPayload{
		TankCount:  system.TankCount,
		InflowRate: system.InflowRate,
		Capacities: system.Capacities,
	}
}

type batchRequest struct {
	Systems []systemPayload `json:"systems"`
}

type timingsResponse struct {
	SpillTime         int64  `json:"spillTime"`
	FullTime          int64  `json:"fullTime"`
	TankCount         int    `json:"tankCount"`
	InflowRate        int64  `json:"inflowRate"`
	Fingerprint       string `json:"fingerprint"`
	CalculationTimeMs int64  `json:"calculationTimeMs"`
}

type batchResult struct {
	Index      int      `json:"index"`
	SpillTime  *int64   `json:"spillTime,omitempty"`
	FullTime   *int64   `json:"fullTime,omitempty"`
	Error      string   `json:"error,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

type batchResponse struct {
	Results []batchResult `json:"results"`
}

type systemsResponse struct {
	Systems []string `json:"systems"`
}

type namedSystemResponse struct {
	Name        string        `json:"name"`
	Fingerprint string        `json:"fingerprint"`
	System      systemPayload `json:"system"`
	Message     string        `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string   `json:"error"`
	Details    string   `json:"details,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Violations []string `json:"violations,omitempty"`
}
