package utils

import (
	"encoding/json"
	"net/http"

	"github.com/moodloop/journal-server/internal/apperr"
)

type Payload struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSONResponse sends a JSON response with given status, success flag, and payload
func JSONResponse(w http.ResponseWriter, status int, payload Payload) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// JSON writes an arbitrary body, for responses whose shape predates the
// Payload envelope (entry lists, stats, analysis results).
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ErrorResponse translates a taxonomy error into its HTTP status and
// client-safe message. Every handler funnels failures through here.
func ErrorResponse(w http.ResponseWriter, err error) {
	JSONResponse(w, apperr.HTTPStatus(err), Payload{
		Success: false,
		Message: apperr.ClientMessage(err),
	})
}

// DecodeJSON decodes a request body. Unknown fields are ignored; clients may
// send more than an endpoint reads (e.g. confirm-password fields).
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("Invalid input")
	}
	return nil
}
