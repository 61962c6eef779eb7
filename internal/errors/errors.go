// Package errors provides standardized error handling across the MCP
// and HTTP surfaces
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents semantic error codes for consistent error handling
type Code string

const (
	// Authentication errors
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"

	// Validation errors
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeInvalidChain  Code = "INVALID_CHAIN"
	CodeInvalidParams Code = "INVALID_PARAMS"

	// Resource errors
	CodeNotFound Code = "NOT_FOUND"

	// Throttling
	CodeRateLimited Code = "RATE_LIMITED"

	// Upstream and system errors
	CodeUpstreamError Code = "UPSTREAM_ERROR"
	CodeTimeout       Code = "TIMEOUT"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeUnavailable   Code = "SERVICE_UNAVAILABLE"
)

// StandardError is the unified error carried between layers
type StandardError struct {
	Code    Code        `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *StandardError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithTraceID attaches a trace ID for correlation
func (e *StandardError) WithTraceID(traceID string) *StandardError {
	e.TraceID = traceID
	return e
}

// New creates a StandardError with the given code and message
func New(code Code, message string) *StandardError {
	return &StandardError{Code: code, Message: message}
}

// Wrap creates a StandardError around an underlying cause
func Wrap(code Code, message string, cause error) *StandardError {
	return &StandardError{Code: code, Message: message, cause: cause}
}

// NewValidation creates a validation error for a specific field
func NewValidation(field, reason string) *StandardError {
	return &StandardError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("validation failed for %q: %s", field, reason),
		Details: map[string]string{"field": field, "reason": reason},
	}
}

// NewUpstream wraps an SDK/transport failure
func NewUpstream(operation string, cause error) *StandardError {
	return &StandardError{
		Code:    CodeUpstreamError,
		Message: fmt.Sprintf("upstream call %q failed", operation),
		cause:   cause,
	}
}

// CodeOf extracts the semantic code from any error chain
func CodeOf(err error) Code {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return CodeInternal
}

// HTTPStatus maps a semantic code to an HTTP status for the REST surface
func HTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeValidation, CodeInvalidChain, CodeInvalidParams:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUpstreamError, CodeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
