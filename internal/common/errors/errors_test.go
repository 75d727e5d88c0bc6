package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{
			name:     "nil error uses fallback",
			err:      nil,
			fallback: "An error occurred during prediction",
			want:     "An error occurred during prediction",
		},
		{
			name:     "service message wins",
			err:      NewServiceFailureError("Models not loaded", 500, stderrors.New("status 500")),
			fallback: "fallback",
			want:     "Models not loaded",
		},
		{
			name:     "empty service message falls back to details",
			err:      NewServiceFailureError("", 502, stderrors.New("bad gateway")),
			fallback: "fallback",
			want:     "bad gateway",
		},
		{
			name:     "plain error text",
			err:      stderrors.New("connection refused"),
			fallback: "fallback",
			want:     "connection refused",
		},
		{
			name:     "wrapped standard error",
			err:      fmt.Errorf("submit: %w", NewServiceTimeoutError("prediction", stderrors.New("deadline"))),
			fallback: "fallback",
			want:     "Service 'prediction' timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, tt.fallback))
		})
	}
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeValidationGap))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodePayloadInvalid))
	assert.Equal(t, "SERVICE", GetErrorCategory(ErrCodeServiceFailure))
	assert.Equal(t, "SERVICE", GetErrorCategory(ErrCodeResponseDecodeFailed))
	assert.Equal(t, "LOOKUP", GetErrorCategory(ErrCodeLookupFailure))
	assert.Equal(t, "NAVIGATION", GetErrorCategory(ErrCodeUnknownFacet))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestServiceFailureRetryable(t *testing.T) {
	assert.True(t, NewServiceFailureError("x", 503, nil).Retryable)
	assert.True(t, NewServiceFailureError("x", 0, nil).Retryable)
	assert.False(t, NewServiceFailureError("x", 422, nil).Retryable)
}

func TestNormalizeKeepsCause(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := NewLookupFailureError("competitors", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, ErrCodeLookupFailure, Normalize(err).Code)
	assert.Equal(t, ErrCodeInternal, Normalize(cause).Code)
	assert.Equal(t, "LOOKUP", Fields(err)["errorCategory"])
}
