// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTransport(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		status   string
		code     int
		expected FailureKind
	}{
		{
			name:     "numeric code 429",
			message:  "too many requests",
			code:     429,
			expected: FailureQuotaExceeded,
		},
		{
			name:     "quota in message",
			message:  "Quota exceeded for quota metric 'GenerateContent requests'",
			expected: FailureQuotaExceeded,
		},
		{
			name:     "429 in message",
			message:  "got HTTP 429 from upstream",
			expected: FailureQuotaExceeded,
		},
		{
			name:     "resource_exhausted in message",
			message:  "rpc error: RESOURCE_EXHAUSTED",
			expected: FailureQuotaExceeded,
		},
		{
			name:     "resource_exhausted in status",
			message:  "request rejected",
			status:   "RESOURCE_EXHAUSTED",
			expected: FailureQuotaExceeded,
		},
		{
			name:     "network timeout is generic",
			message:  "network timeout",
			expected: FailureGeneric,
		},
		{
			name:     "server error is generic",
			message:  "internal server error",
			status:   "INTERNAL",
			code:     500,
			expected: FailureGeneric,
		},
		{
			name:     "empty error is generic",
			expected: FailureGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyTransport(tt.message, tt.status, tt.code))
		})
	}
}

func TestClassify_TransportError(t *testing.T) {
	quota := &TransportError{Message: "rejected", Code: 429}
	assert.Equal(t, FailureQuotaExceeded, Classify(quota))
	assert.True(t, IsQuotaExceeded(quota))

	generic := &TransportError{Message: "network timeout"}
	assert.Equal(t, FailureGeneric, Classify(generic))
	assert.False(t, IsQuotaExceeded(generic))
}

func TestClassify_WrappedTransportError(t *testing.T) {
	inner := &TransportError{Message: "rejected", Status: "RESOURCE_EXHAUSTED"}
	wrapped := fmt.Errorf("generate: %w", inner)
	assert.True(t, IsQuotaExceeded(wrapped))
}

func TestClassify_StandardError(t *testing.T) {
	assert.True(t, IsQuotaExceeded(NewQuotaExceededError("details")))
	assert.False(t, IsQuotaExceeded(NewEnrichmentFailedError(stderrors.New("boom"))))
}

func TestClassify_PlainError(t *testing.T) {
	assert.True(t, IsQuotaExceeded(stderrors.New("user quota exhausted")))
	assert.False(t, IsQuotaExceeded(stderrors.New("connection refused")))
	assert.False(t, IsQuotaExceeded(nil))
}

func TestStandardError_Error(t *testing.T) {
	err := NewListingNotFoundError("abc")
	assert.Equal(t, "StandardError[LISTING_NOT_FOUND]: Listing not found in store", err.Error())
	assert.False(t, err.Retryable)
}
