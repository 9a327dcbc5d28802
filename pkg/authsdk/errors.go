package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/aussiebroadwan/surplus360/pkg/httpx"
)

// ============================================================================
// Error Codes
// ============================================================================

const (
	ErrorCodeBadRequest   = "bad_request"
	ErrorCodeValidation   = "validation_error"
	ErrorCodeUnauthorized = "unauthorized"
	ErrorCodeAccessDenied = "access_denied"
	ErrorCodeNotFound     = "not_found"
	ErrorCodeConflict     = "conflict"
	ErrorCodeRateLimited  = "rate_limit_exceeded"
	ErrorCodeServerError  = "server_error"
)

// ============================================================================
// APIError
// ============================================================================

// APIError is an error response from the service. The server uses it to
// write responses and the client returns it for any non-2xx answer.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"status"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Message is a human-readable description of the error
	Message string `json:"message,omitempty"`

	// Fields holds per-field validation messages
	Fields map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(parts, "; "))
}

// WriteError writes this error to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Error:   e.Code,
		Message: e.Message,
		Status:  e.StatusCode,
		Fields:  e.Fields,
	})
}

// WithMessage returns a copy of e carrying msg.
func (e *APIError) WithMessage(msg string) *APIError {
	cp := *e
	cp.Message = msg
	return &cp
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrBadRequest is returned for bodies that cannot be decoded.
	ErrBadRequest = &APIError{
		StatusCode: http.StatusBadRequest,
		Code:       ErrorCodeBadRequest,
		Message:    "the request is malformed",
	}

	// ErrInvalidCredentials is returned for every failed authentication,
	// whatever the underlying reason.
	ErrInvalidCredentials = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
		Message:    "invalid credentials",
	}

	// ErrInvalidToken is returned when a token is missing, invalid or expired.
	ErrInvalidToken = &APIError{
		StatusCode: http.StatusUnauthorized,
		Code:       ErrorCodeUnauthorized,
		Message:    "the token is missing, invalid or expired",
	}

	// ErrAccessDenied is returned when the caller lacks the required authority.
	ErrAccessDenied = &APIError{
		StatusCode: http.StatusForbidden,
		Code:       ErrorCodeAccessDenied,
		Message:    "access denied",
	}

	// ErrNotFound is returned when the addressed resource does not exist.
	ErrNotFound = &APIError{
		StatusCode: http.StatusNotFound,
		Code:       ErrorCodeNotFound,
		Message:    "not found",
	}

	// ErrServerError is returned for anything the server did not anticipate.
	ErrServerError = &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       ErrorCodeServerError,
		Message:    "internal server error",
	}
)

// NewAPIError creates an APIError with the given status code, code and message.
func NewAPIError(statusCode int, code, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// ============================================================================
// Error Parsing Helpers
// ============================================================================

// parseErrorResponse converts a non-2xx response into an *APIError.
// Returns nil if the response indicates success (2xx status code).
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Code:       errResp.Error,
			Message:    errResp.Message,
			Fields:     errResp.Fields,
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       ErrorCodeServerError,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
