// Package apierr maps service errors onto the JSON error envelope of the API.
package apierr

import (
	"errors"
	"net/http"

	"github.com/neu-balayan/pageantscore/internal/api/response"
	"github.com/neu-balayan/pageantscore/internal/model"
	"github.com/neu-balayan/pageantscore/internal/services/auth"
)

// APIError is the body of every API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeMissingInput       = "MISSING_INPUT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnavailable        = "UNAVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// Error is an API error with its HTTP status
type Error struct {
	Status int
	Body   APIError
}

func (e *Error) Error() string {
	return e.Body.Message
}

func newError(status int, code, message string) *Error {
	return &Error{Status: status, Body: APIError{Code: code, Message: message}}
}

// sentinels lists the service errors the API reports with a specific code.
// The first match wins.
var sentinels = []struct {
	target error
	err    *Error
}{
	{model.ErrMissingInput, newError(http.StatusBadRequest, CodeMissingInput, "Enter username and password")},
	{model.ErrInvalidCredentials, newError(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid credentials")},
	{auth.ErrInvalidSession, newError(http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired session")},
}

// From converts any error into an API error; unknown errors become 500s
func From(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	for _, s := range sentinels {
		if errors.Is(err, s.target) {
			return s.err
		}
	}
	return NewInternalError()
}

// WriteError writes the JSON error envelope for err
func WriteError(w http.ResponseWriter, err error) {
	e := From(err)
	response.JSON(w, e.Status, ErrorResponse{Error: e.Body})
}

// NewInvalidRequestError reports a malformed request
func NewInvalidRequestError(message string) *Error {
	return newError(http.StatusBadRequest, CodeInvalidRequest, message)
}

// NewUnauthorizedError reports a request without a session
func NewUnauthorizedError() *Error {
	return newError(http.StatusUnauthorized, CodeUnauthorized, "Authentication required")
}

// NewUnavailableError reports an unreachable roster backend
func NewUnavailableError() *Error {
	return newError(http.StatusServiceUnavailable, CodeUnavailable, "Roster storage unavailable")
}

// NewInternalError hides the cause of an unexpected failure
func NewInternalError() *Error {
	return newError(http.StatusInternalServerError, CodeInternalError, "Internal server error")
}
