// Package respond writes JSON bodies and the chat backend's error envelope.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Reason is the stable, machine-readable category carried in the "error"
// field. Clients branch on it instead of on the message text.
type Reason string

const (
	ReasonInvalidRequest Reason = "invalid_request"
	ReasonForbidden      Reason = "forbidden"
	ReasonNotFound       Reason = "not_found"
	ReasonConflict       Reason = "conflict"
	ReasonTooLarge       Reason = "payload_too_large"
	ReasonInternal       Reason = "internal_error"
)

var reasonStatus = map[Reason]int{
	ReasonInvalidRequest: http.StatusBadRequest,
	ReasonForbidden:      http.StatusForbidden,
	ReasonNotFound:       http.StatusNotFound,
	ReasonConflict:       http.StatusConflict,
	ReasonTooLarge:       http.StatusRequestEntityTooLarge,
	ReasonInternal:       http.StatusInternalServerError,
}

// Status returns the HTTP status for r; unknown reasons are 500.
func (r Reason) Status() int {
	if code, ok := reasonStatus[r]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   Reason `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// Fail writes the error envelope for reason with its matching status.
func Fail(w http.ResponseWriter, reason Reason, message string) {
	code := reason.Status()
	WriteJSON(w, code, ErrorResponse{Error: reason, Code: code, Message: message})
}
