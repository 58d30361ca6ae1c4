package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"

	// A provider, renderer, or storage call failed or timed out. Recovered
	// locally by falling back to the next source; never surfaced alone.
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"

	// AI inference error codes shared by the wish and vision analyzers.
	ErrCodeAIFailure     = "AI_FAILURE"
	ErrCodeAIAuthFailure = "AI_AUTH_FAILURE"
	ErrCodeAIRateLimited = "AI_RATE_LIMITED"

	ErrCodeStorageFailure = "STORAGE_FAILURE"

	// The whole resolution stack failed unexpectedly. Surfaced as a degraded
	// response carrying an all-absent record, never a bare failure.
	ErrCodePipelineFatal = "PIPELINE_FATAL"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResolveError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ResolveError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// NewResolveError creates a new ResolveError.
func NewResolveError(code, message string, err error) *ResolveError {
	return &ResolveError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ResolveError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
