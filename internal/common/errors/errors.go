// Package errors provides standardized error handling for the AI gateway.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed        ErrorCode = "VALIDATION_ERROR"
	ErrCodeUnknownAction           ErrorCode = "UNKNOWN_ACTION"
	ErrCodeUpstreamInvocation      ErrorCode = "UPSTREAM_INVOCATION_FAILED"
	ErrCodeUnsupportedResponseType ErrorCode = "UNSUPPORTED_RESPONSE_TYPE"
	ErrCodeQualityRejected         ErrorCode = "QUALITY_REJECTED"
	ErrCodeTranslationFailed       ErrorCode = "TRANSLATION_FAILED"
	ErrCodeCacheFailure            ErrorCode = "CACHE_FAILURE"
)

// GatewayError represents a structured application error.
type GatewayError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("GatewayError[%s]: %s", e.Code, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.cause
}

// NewValidationError creates a non-retryable bad-request error. The message
// names the offending field exactly as callers expect ("<field> is required").
func NewValidationError(field string) *GatewayError {
	return &GatewayError{
		Code:      ErrCodeValidationFailed,
		Message:   fmt.Sprintf("%s is required", field),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownActionError creates a non-retryable error for an action outside
// the supported enumeration.
func NewUnknownActionError(action string) *GatewayError {
	return &GatewayError{
		Code:      ErrCodeUnknownAction,
		Message:   "Unknown action",
		Details:   fmt.Sprintf("action: %s", action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamInvocationError creates a retryable error for a failed model call.
func NewUpstreamInvocationError(model string, err error) *GatewayError {
	return &GatewayError{
		Code:      ErrCodeUpstreamInvocation,
		Message:   fmt.Sprintf("Model '%s' invocation failed", model),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUnsupportedResponseTypeError creates a non-retryable error for a model
// result whose runtime shape the gateway cannot interpret. The call itself
// succeeded, only its shape was unexpected.
func NewUnsupportedResponseTypeError(goType string) *GatewayError {
	return &GatewayError{
		Code:      ErrCodeUnsupportedResponseType,
		Message:   fmt.Sprintf("Unsupported response type: %s", goType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQualityRejectedError creates the internal rejection signal used by the
// retry policy. It never leaks to callers directly.
func NewQualityRejectedError(reason string) *GatewayError {
	return &GatewayError{
		Code:      ErrCodeQualityRejected,
		Message:   "Result rejected by quality gate",
		Details:   reason,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTranslationFailedError creates the terminal error raised when the
// primary translation loop exhausts its attempts.
func NewTranslationFailedError(attempts int) *GatewayError {
	return &GatewayError{
		Code:      ErrCodeTranslationFailed,
		Message:   fmt.Sprintf("Translation failed after %d attempts", attempts),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheFailureError wraps a cache backend error for the named operation.
func NewCacheFailureError(op string, err error) *GatewayError {
	return &GatewayError{
		Code:      ErrCodeCacheFailure,
		Message:   fmt.Sprintf("Cache %s failed", op),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// CodeOf extracts the ErrorCode from an error chain, or empty when none.
func CodeOf(err error) ErrorCode {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ""
}

// HTTPStatus maps an error to the status the envelope wrapper should emit.
// Validation problems never reached a model and are the caller's fault; every
// other failure is surfaced as a server error.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeValidationFailed, ErrCodeUnknownAction:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsRetryable reports whether the error chain carries a retryable gateway error.
func IsRetryable(err error) bool {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Retryable
	}
	return false
}
