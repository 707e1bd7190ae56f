package errors

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorCode is the machine-readable error code of an API response
type ErrorCode string

const (
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeConflict         ErrorCode = "conflict"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeRateLimited      ErrorCode = "rate_limited"

	ErrCodeInternalError ErrorCode = "internal_error"
	ErrCodeServiceError  ErrorCode = "service_error" // an upstream page, API or store failed
)

var statusByCode = map[ErrorCode]int{
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeValidationFailed: http.StatusUnprocessableEntity,
	ErrCodeRateLimited:      http.StatusTooManyRequests,
	ErrCodeInternalError:    http.StatusInternalServerError,
	ErrCodeServiceError:     http.StatusBadGateway,
}

// Status returns the HTTP status the code is served with
func (c ErrorCode) Status() int {
	if status, ok := statusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// APIError is the JSON body of every error response
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// Status returns the HTTP status of the error
func (e *APIError) Status() int {
	return e.Code.Status()
}

// New creates an API error; details are joined with ", "
func New(code ErrorCode, message string, details ...string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewInternalError(message string, details ...string) *APIError {
	return New(ErrCodeInternalError, message, details...)
}

func NewRateLimitedError(message string, details ...string) *APIError {
	return New(ErrCodeRateLimited, message, details...)
}
