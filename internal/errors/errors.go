package errors

import (
	"fmt"
	"strings"
)

// Error codes
const (
	ErrCodeUnknownType   = "UNKNOWN_CHALLENGE_TYPE"
	ErrCodeDuplicateType = "DUPLICATE_CHALLENGE_TYPE"
	ErrCodeMissingField  = "MISSING_REQUIRED_FIELD"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeInternal      = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "UNKNOWN_CHALLENGE_TYPE")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewUnknownTypeError reports an unregistered challenge type. The message
// enumerates the currently registered types so callers can self-correct.
func NewUnknownTypeError(typeName string, registered []string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownType,
		Message: fmt.Sprintf("unknown challenge type %q; registered types: %s", typeName, strings.Join(registered, ", ")),
		Status:  400,
	}
}

// NewDuplicateTypeError reports an attempt to register an existing type name.
func NewDuplicateTypeError(typeName string) *AppError {
	return &AppError{
		Code:    ErrCodeDuplicateType,
		Message: fmt.Sprintf("challenge type %q is already registered", typeName),
		Status:  409,
	}
}

// NewMissingFieldError reports a required field the caller did not provide.
func NewMissingFieldError(field string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("missing required field: %s", field),
		Status:  400,
	}
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}
