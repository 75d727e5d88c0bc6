// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"
	"time"
)

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   err.Error(),
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// UserMessage returns the text shown in the single user-visible error channel:
// the message reported by the failing service, else the error text, else fallback.
func UserMessage(err error, fallback string) string {
	stdErr := Normalize(err)
	if stdErr == nil {
		return fallback
	}
	if stdErr.Message != "" {
		return stdErr.Message
	}
	if stdErr.Details != "" {
		return stdErr.Details
	}
	return fallback
}

// Fields flattens an error into logger fields.
func Fields(err error) map[string]interface{} {
	stdErr := Normalize(err)
	if stdErr == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
}
