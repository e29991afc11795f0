package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeTimeout      = "INSPECT_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeProbe        = "PROBE_FAILED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeNotFound     = "RUN_NOT_FOUND"
	ErrCodeStorage      = "STORAGE_FAILED"
	ErrCodeInternal     = "INTERNAL_ERROR"

	// Insight (LLM) error codes. Insight failures never fail an
	// inspection; these surface only in logs.
	ErrCodeInsightFailure     = "INSIGHT_FAILURE"
	ErrCodeInsightAuthFailure = "INSIGHT_AUTH_FAILURE"
	ErrCodeInsightRateLimited = "INSIGHT_RATE_LIMITED"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InspectError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type InspectError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *InspectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InspectError) Unwrap() error {
	return e.Err
}

// NewInspectError creates a new InspectError.
func NewInspectError(code, message string, err error) *InspectError {
	return &InspectError{Code: code, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *InspectError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message}
}
