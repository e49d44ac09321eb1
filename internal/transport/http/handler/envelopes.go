package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/healthapp-api/internal/domain"
)

// Envelope is the response wrapper every endpoint returns: a status
// discriminator, a human-readable message, and for errors a stable
// machine-readable code with optional field-level details.
type Envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Code    string            `json:"code,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, Envelope{Status: "success", Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, Envelope{Status: "error", Code: code, Message: msg})
}

// httpError maps a service error onto the wire contract. Taxonomy errors keep
// their message, code and details; anything unrecognized degrades to a
// generic 500 and is logged for operators.
func httpError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "err", err)
		writeError(w, status, domain.CodeServerError, "something went wrong")
		return
	}
	writeJSON(w, status, Envelope{
		Status:  "error",
		Code:    domain.CodeOf(err),
		Message: err.Error(),
		Details: domain.DetailsOf(err),
	})
}
