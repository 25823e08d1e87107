package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for recon-bot errors.
type ErrorCode string

// Input validation error codes
const (
	VALIDATION_FAILED   ErrorCode = "VALIDATION_FAILED"
	TARGET_INVALID      ErrorCode = "TARGET_INVALID"
	CAMPAIGN_ID_MISSING ErrorCode = "CAMPAIGN_ID_MISSING"
)

// Rate limiting error codes
const (
	RATE_LIMIT_EXCEEDED    ErrorCode = "RATE_LIMIT_EXCEEDED"
	RATE_LIMIT_STORE_ERROR ErrorCode = "RATE_LIMIT_STORE_ERROR"
)

// Database error codes
const (
	DB_OPEN_FAILED      ErrorCode = "DB_OPEN_FAILED"
	DB_MIGRATION_FAILED ErrorCode = "DB_MIGRATION_FAILED"
	DB_QUERY_FAILED     ErrorCode = "DB_QUERY_FAILED"
	DB_UPDATE_FAILED    ErrorCode = "DB_UPDATE_FAILED"
)

// Upstream collaborator error codes
const (
	UPSTREAM_ANALYSIS_FAILED ErrorCode = "UPSTREAM_ANALYSIS_FAILED"
	UPSTREAM_PLANNING_FAILED ErrorCode = "UPSTREAM_PLANNING_FAILED"
	UPSTREAM_RECON_FAILED    ErrorCode = "UPSTREAM_RECON_FAILED"
	UPSTREAM_INTEL_FAILED    ErrorCode = "UPSTREAM_INTEL_FAILED"
)

// Execution and planning error codes
const (
	AGENT_EXECUTION_FAILED ErrorCode = "AGENT_EXECUTION_FAILED"
	PLANNING_EMPTY_RESULT  ErrorCode = "PLANNING_EMPTY_RESULT"
	CONFIG_LOAD_FAILED     ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_INVALID         ErrorCode = "CONFIG_INVALID"
)

// ReconError represents a structured error with error code, message,
// and optional cause. It supports error wrapping and retryability
// hints for error handling logic.
type ReconError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *ReconError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error chains.
func (e *ReconError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
func (e *ReconError) Is(target error) bool {
	var re *ReconError
	if errors.As(target, &re) {
		return e.Code == re.Code
	}
	return false
}

// NewError creates a new non-retryable ReconError.
func NewError(code ErrorCode, message string) *ReconError {
	return &ReconError{
		Code:    code,
		Message: message,
	}
}

// NewRetryableError creates a new retryable ReconError. Use this for
// transient failures such as network timeouts.
func NewRetryableError(code ErrorCode, message string) *ReconError {
	return &ReconError{
		Code:      code,
		Message:   message,
		Retryable: true,
	}
}

// WrapError creates a new non-retryable ReconError that wraps an
// existing error, accessible via Unwrap().
func WrapError(code ErrorCode, message string, cause error) *ReconError {
	return &ReconError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsCode reports whether err carries the given error code anywhere in
// its chain.
func IsCode(err error, code ErrorCode) bool {
	var re *ReconError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}
