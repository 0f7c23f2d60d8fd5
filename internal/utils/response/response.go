// Package response provides helpers for writing consistent HTTP responses.
//
// Success responses may be any JSON shape (an entity, a list) or an empty
// body. Error responses with a body always look like:
//
//	{ "status": "error", "error": "no student found with id: 3" }
package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Response is the standard envelope returned for error cases.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// StatusError is the Status of every error envelope.
const StatusError = "error"

// WriteJSON writes data as JSON with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called, headers are locked.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// The status line is already sent; an encode failure can only be logged.
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

// WriteEmpty writes only a status line: 204, and the 400/404 answers that
// carry no body.
func WriteEmpty(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// GeneralError wraps any Go error into the standard Response shape.
//
//	response.WriteJSON(w, http.StatusInternalServerError,
//	    response.GeneralError(err))
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}
