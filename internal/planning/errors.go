package planning

import (
	"errors"
	"fmt"
)

// ErrorType classifies planning failures.
type ErrorType string

const (
	// ErrorTypeValidation indicates malformed caller input
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeGeneration indicates the generative call failed or its
	// output could not be validated; the fallback path handles these
	ErrorTypeGeneration ErrorType = "generation"

	// ErrorTypeEmptyPlan indicates neither path produced any steps
	ErrorTypeEmptyPlan ErrorType = "empty_plan"

	// ErrorTypePersistence indicates the plan could not be stored
	ErrorTypePersistence ErrorType = "persistence"
)

// PlanningError is a structured planning failure.
type PlanningError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *PlanningError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("planning %s error: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("planning %s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause.
func (e *PlanningError) Unwrap() error {
	return e.Cause
}

// NewPlanningError creates a new planning error.
func NewPlanningError(errType ErrorType, message string) *PlanningError {
	return &PlanningError{Type: errType, Message: message}
}

// WrapPlanningError wraps an existing error.
func WrapPlanningError(errType ErrorType, message string, cause error) *PlanningError {
	return &PlanningError{Type: errType, Message: message, Cause: cause}
}

// IsErrorType reports whether err is a PlanningError of the given type.
func IsErrorType(err error, errType ErrorType) bool {
	var pe *PlanningError
	if errors.As(err, &pe) {
		return pe.Type == errType
	}
	return false
}
