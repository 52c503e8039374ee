// internal/common/errors/errors.go
// Package errors provides the standardized error taxonomy for the label
// generation orchestration layer.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeRequestValidationFailed ErrorCode = "REQUEST_VALIDATION_FAILED"
	ErrCodeUnsupportedMarket       ErrorCode = "UNSUPPORTED_MARKET"

	ErrCodeGenerationFailed      ErrorCode = "GENERATION_FAILED"
	ErrCodeGenerationUnavailable ErrorCode = "GENERATION_SERVICE_UNAVAILABLE"
	ErrCodeGenerationNoContent   ErrorCode = "GENERATION_NO_CONTENT"

	ErrCodeOutputMalformed       ErrorCode = "OUTPUT_MALFORMED"
	ErrCodeOutputSchemaViolation ErrorCode = "OUTPUT_SCHEMA_VIOLATION"

	ErrCodeTranslationDegraded ErrorCode = "TRANSLATION_DEGRADED"

	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeDuplicateArtifact ErrorCode = "DUPLICATE_ARTIFACT"
	ErrCodeArtifactNotFound  ErrorCode = "ARTIFACT_NOT_FOUND"

	ErrCodeDeadlineExceeded ErrorCode = "DEADLINE_EXCEEDED"
	ErrCodeMethodNotAllowed ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeMalformedRequest ErrorCode = "MALFORMED_REQUEST"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error without losing the code.
func (e *StandardError) WithCause(err error) *StandardError {
	e.cause = err
	if e.Details == "" && err != nil {
		e.Details = err.Error()
	}
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewRequestValidationError creates a non-retryable client input error.
func NewRequestValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestValidationFailed,
		Message:   "Request failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedMarketError creates a non-retryable market rejection.
func NewUnsupportedMarketError(market string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedMarket,
		Message:   "Market code is not in the supported set",
		Details:   fmt.Sprintf("market: %s", market),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationUnavailableError creates a retryable generative-service fault.
func NewGenerationUnavailableError(err error) *StandardError {
	return (&StandardError{
		Code:      ErrCodeGenerationUnavailable,
		Message:   "Generative service unavailable",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}).WithCause(err)
}

// NewGenerationNoContentError creates a retryable empty-response fault.
func NewGenerationNoContentError() *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationNoContent,
		Message:   "Generative service returned no content",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFailedError aggregates an exhausted retry budget, carrying
// the last underlying cause.
func NewGenerationFailedError(attempts int, last error) *StandardError {
	return (&StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   fmt.Sprintf("Generation failed after %d attempts", attempts),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}).WithCause(last)
}

// NewOutputMalformedError creates a retryable malformed-output error.
func NewOutputMalformedError(err error) *StandardError {
	return (&StandardError{
		Code:      ErrCodeOutputMalformed,
		Message:   "Model output is not valid JSON",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}).WithCause(err)
}

// NewOutputSchemaViolationError creates a retryable schema-violation error
// naming the offending field.
func NewOutputSchemaViolationError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOutputSchemaViolation,
		Message:   "Model output does not satisfy the content schema",
		Details:   fmt.Sprintf("field: %s, %s", field, details),
		Retryable: true,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewTranslationDegradedError creates the non-fatal translation failure.
func NewTranslationDegradedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTranslationDegraded,
		Message:   "Translation self-check failed, proceeding untranslated",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceError creates a persistence failure. Fatal on the standard
// path; logged-and-ignored on the crisis audit path.
func NewPersistenceError(err error) *StandardError {
	return (&StandardError{
		Code:      ErrCodePersistenceFailed,
		Message:   "Durable write failed",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}).WithCause(err)
}

// NewDuplicateArtifactError creates the create-only key collision error.
func NewDuplicateArtifactError(key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateArtifact,
		Message:   "An artifact with this key already exists",
		Details:   fmt.Sprintf("key: %s", key),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactNotFoundError creates the read-side miss error.
func NewArtifactNotFoundError(key string) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactNotFound,
		Message:   "No artifact with this key",
		Details:   fmt.Sprintf("key: %s", key),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeadlineExceededError creates the timeout outcome. It takes priority
// over any other in-flight error once the guard fires.
func NewDeadlineExceededError(budget time.Duration) *StandardError {
	return &StandardError{
		Code:      ErrCodeDeadlineExceeded,
		Message:   "Orchestration deadline exceeded",
		Details:   fmt.Sprintf("budget: %s", budget),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedRequestError creates the unparseable-body error.
func NewMalformedRequestError(err error) *StandardError {
	return (&StandardError{
		Code:      ErrCodeMalformedRequest,
		Message:   "Request body is not valid JSON",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}).WithCause(err)
}

// NewMethodNotAllowedError creates the wrong-verb error.
func NewMethodNotAllowedError(method string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMethodNotAllowed,
		Message:   "Method not allowed",
		Details:   fmt.Sprintf("method: %s", method),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an uncategorized failure.
func NewInternalError(err error) *StandardError {
	return (&StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}).WithCause(err)
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandard normalizes any error to a StandardError.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code == code
	}
	return false
}

// IsRetryable reports whether err is worth another attempt. Unknown errors
// are not retried.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// IsGenerationFault reports whether err originated at the generative
// service, as opposed to output validation.
func IsGenerationFault(err error) bool {
	return IsCode(err, ErrCodeGenerationUnavailable) || IsCode(err, ErrCodeGenerationNoContent)
}

// IsOutputValidation reports whether err is the model-output error class.
func IsOutputValidation(err error) bool {
	return IsCode(err, ErrCodeOutputMalformed) || IsCode(err, ErrCodeOutputSchemaViolation)
}
