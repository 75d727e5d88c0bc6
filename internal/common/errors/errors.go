// Package errors provides the standardized error taxonomy for the console.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Resolved locally by defaulting; never surfaced to the user.
	ErrCodeValidationGap  ErrorCode = "VALIDATION_GAP"
	ErrCodePayloadInvalid ErrorCode = "PAYLOAD_INVALID"

	// Prediction service failures surface through pendingError.
	ErrCodeServiceFailure       ErrorCode = "SERVICE_FAILURE"
	ErrCodeServiceTimeout       ErrorCode = "SERVICE_TIMEOUT"
	ErrCodeResponseDecodeFailed ErrorCode = "RESPONSE_DECODE_FAILED"

	// Lookup failures are swallowed after logging.
	ErrCodeLookupFailure ErrorCode = "LOOKUP_FAILURE"

	ErrCodeUnknownFacet ErrorCode = "UNKNOWN_FACET"
	ErrCodeUnknownView  ErrorCode = "UNKNOWN_VIEW"
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationGapError records a field that failed to parse and was defaulted.
func NewValidationGapError(field, raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationGap,
		Message:   "Field could not be parsed and was defaulted",
		Details:   fmt.Sprintf("field: %s, value: %q", field, raw),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPayloadInvalidError reports an outgoing request that violates the service contract.
func NewPayloadInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodePayloadInvalid,
		Message:   "Analysis request does not match the service contract",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewServiceFailureError wraps a failed prediction call. message is the
// human-readable text reported by the service, if any.
func NewServiceFailureError(message string, status int, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeServiceFailure,
		Message:   message,
		Details:   details,
		Retryable: status >= 500 || status == 0,
		Metadata:  map[string]interface{}{"status": status},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewServiceTimeoutError reports a prediction call that exceeded the transport timeout.
func NewServiceTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeServiceTimeout,
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   errString(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewResponseDecodeError reports a response body that could not be decoded even after repair.
func NewResponseDecodeError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseDecodeFailed,
		Message:   "Prediction response could not be decoded",
		Details:   errString(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewLookupFailureError wraps a failed competitor or acquisition lookup.
func NewLookupFailureError(kind string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLookupFailure,
		Message:   fmt.Sprintf("Lookup '%s' failed", kind),
		Details:   errString(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewUnknownFacetError reports a facet key outside the known set.
func NewUnknownFacetError(facet string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownFacet,
		Message:   "Unknown facet",
		Details:   fmt.Sprintf("facet: %s", facet),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnknownViewError reports a view key outside the navigation states.
func NewUnknownViewError(view string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownView,
		Message:   "Unknown view",
		Details:   fmt.Sprintf("view: %s", view),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PAYLOAD"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SERVICE") || strings.Contains(codeStr, "RESPONSE"):
		return "SERVICE"
	case strings.Contains(codeStr, "LOOKUP"):
		return "LOOKUP"
	case strings.Contains(codeStr, "FACET") || strings.Contains(codeStr, "VIEW"):
		return "NAVIGATION"
	default:
		return "OTHER"
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
