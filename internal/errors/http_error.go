package errors

import (
	"encoding/json"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
// Message is what the client sees; it never carries internal detail.
type HTTPError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helpers for common errors
var (
	ErrBadRequest  = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
	ErrNotFound    = func(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, msg) }
	ErrUnavailable = func(msg string) *HTTPError { return NewHTTPError(http.StatusServiceUnavailable, msg) }
	ErrInternal    = func(msg string) *HTTPError { return NewHTTPError(http.StatusInternalServerError, msg) }
)

// Write sends e as a JSON body {"error": "..."}.
func Write(w http.ResponseWriter, e *HTTPError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Code)
	_ = json.NewEncoder(w).Encode(e)
}
