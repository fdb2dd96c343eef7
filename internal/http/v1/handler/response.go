package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"gqlbench/internal/lib/logger/sl"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// responder carries the JSON helpers every handler writes through.
type responder struct {
	log *slog.Logger
}

func (h responder) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode JSON response", sl.Err(err))
	}
}

func (h responder) writeError(w http.ResponseWriter, status int, message string, err error) {
	response := ErrorResponse{
		Error: message,
	}
	if err != nil {
		response.Details = err.Error()
	}
	h.writeJSON(w, status, response)
}

func (h responder) writeText(w http.ResponseWriter, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		h.log.Error("failed to write response", sl.Err(err))
	}
}
