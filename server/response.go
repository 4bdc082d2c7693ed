package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// Error codes returned in the "error" field of a 400 response.
const (
	CodeInvalidTask      = "invalid_task"
	CodeInvalidDuration  = "invalid_duration"
	CodeUnknownAlgorithm = "unknown_algorithm"
	CodeInvalidRequest   = "invalid_request"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// requestID generates a unique request identifier.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

// respondError writes an error body with the given status.
func respondError(w http.ResponseWriter, status int, code, detail string) {
	respondJSON(w, status, errorResponse{Error: code, Detail: detail})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
