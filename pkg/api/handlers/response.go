package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fileflow/fileflow/internal/logger"
)

// Envelope is the standard JSON response wrapper.
//
// Code mirrors the HTTP status so clients reading the body alone can
// branch on it. Message carries the human-readable error; Data carries
// the payload on success.
type Envelope struct {
	Code    int    `json:"code"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing useful can be sent.
		logger.Error("failed to encode response", "error", err)
	}
}

// OK writes a 200 envelope with data.
func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Envelope{
		Code:    http.StatusOK,
		Success: true,
		Data:    data,
	})
}

// OKMessage writes a 200 envelope with a message and no data.
func OKMessage(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusOK, Envelope{
		Code:    http.StatusOK,
		Success: true,
		Message: message,
	})
}

// Fail writes an error envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{
		Code:    status,
		Success: false,
		Message: message,
	})
}
