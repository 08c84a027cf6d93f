// Package errors provides standardized error handling for the listing
// monitoring service, including the transport-failure classification used by
// the enrichment gateway.
package errors

import (
	stderrors "errors"
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
	ErrCodeQuotaExceeded          ErrorCode = "QUOTA_EXCEEDED"
	ErrCodeEnrichmentFailed       ErrorCode = "ENRICHMENT_FAILED"
	ErrCodeSchemaValidationFailed ErrorCode = "SCHEMA_VALIDATION_FAILED"

	ErrCodeListingNotFound  ErrorCode = "LISTING_NOT_FOUND"
	ErrCodeDuplicateListing ErrorCode = "DUPLICATE_LISTING"
	ErrCodeInvalidListing   ErrorCode = "INVALID_LISTING"
	ErrCodeReviewNotFound   ErrorCode = "REVIEW_NOT_FOUND"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewQuotaExceededError creates a non-retryable quota error. Callers should
// surface a credential-reconfiguration affordance rather than retry.
func NewQuotaExceededError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuotaExceeded,
		Message:   "AI service quota or rate limit exceeded",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEnrichmentFailedError creates a generic enrichment failure.
func NewEnrichmentFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEnrichmentFailed,
		Message:   "AI enrichment request failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSchemaValidationFailedError creates a non-retryable schema error for a
// malformed structured AI response.
func NewSchemaValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaValidationFailed,
		Message:   "AI response failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewListingNotFoundError creates a non-retryable lookup error.
func NewListingNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeListingNotFound,
		Message:   "Listing not found in store",
		Details:   fmt.Sprintf("listingId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateListingError creates a non-retryable duplicate-ID error.
func NewDuplicateListingError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateListing,
		Message:   "Listing already exists",
		Details:   fmt.Sprintf("listingId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidListingError creates a non-retryable input validation error.
func NewInvalidListingError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidListing,
		Message:   "Listing data validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewReviewNotFoundError creates a non-retryable lookup error.
func NewReviewNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeReviewNotFound,
		Message:   "Review not found",
		Details:   fmt.Sprintf("reviewId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Transport Failure Classification
// ==========================

// FailureKind is the two-way taxonomy of enrichment failures: the external AI
// service rejecting on quota/rate budget vs. everything else (network errors,
// malformed responses, schema violations).
type FailureKind string

const (
	FailureQuotaExceeded FailureKind = "quota_exceeded"
	FailureGeneric       FailureKind = "generic"
)

// TransportError carries what the underlying AI transport reported about a
// failed request: a message, an optional status string, and an optional
// numeric status/error code.
type TransportError struct {
	Message string
	Status  string
	Code    int
}

func (e *TransportError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("transport error [%s]: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("transport error: %s", e.Message)
}

// ClassifyTransport applies the quota-detection rule to raw transport fields:
// quota if the message contains "quota", "429" or "resource_exhausted"
// (case-insensitive), the status contains "resource_exhausted", or the
// numeric code equals 429.
func ClassifyTransport(message, status string, code int) FailureKind {
	msg := strings.ToLower(message)
	st := strings.ToLower(status)

	if strings.Contains(msg, "quota") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(st, "resource_exhausted") ||
		code == 429 {
		return FailureQuotaExceeded
	}
	return FailureGeneric
}

// Classify classifies any error from the enrichment transport.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureGeneric
	}

	var te *TransportError
	if stderrors.As(err, &te) {
		return ClassifyTransport(te.Message, te.Status, te.Code)
	}

	var se *StandardError
	if stderrors.As(err, &se) && se.Code == ErrCodeQuotaExceeded {
		return FailureQuotaExceeded
	}

	return ClassifyTransport(err.Error(), "", 0)
}

// IsQuotaExceeded reports whether err classifies as a quota failure.
func IsQuotaExceeded(err error) bool {
	return err != nil && Classify(err) == FailureQuotaExceeded
}
