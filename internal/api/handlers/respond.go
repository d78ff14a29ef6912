package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wonny/edgelab/internal/contracts"
)

// errorResponse is the uniform API error envelope
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON body with the given status
func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError maps domain sentinel errors to HTTP status codes.
// 데이터 없음 → 404, 요청/전략 문제 → 400, 그 외 → 500
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, contracts.ErrDataUnavailable):
		status = http.StatusNotFound
	case errors.Is(err, contracts.ErrStrategyContract),
		errors.Is(err, contracts.ErrSignalAlignment),
		errors.Is(err, contracts.ErrSimulation):
		status = http.StatusBadRequest
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}
