// Package errors defines the pipeline error taxonomy. Every error is
// terminal for the run: the pipeline has no partial-success mode, so cmd
// mains log the failure verbatim and exit non-zero.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeLoad             ErrorType = "LOAD"
	ErrTypeParsing          ErrorType = "PARSING"
	ErrTypeUnknownCode      ErrorType = "UNKNOWN_CODE"
	ErrTypeValidation       ErrorType = "VALIDATION"
	ErrTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
	ErrTypeStorage          ErrorType = "STORAGE"
	ErrTypeConfig           ErrorType = "CONFIG"
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// IsType reports whether err is (or wraps) an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// Helper constructors for the pipeline taxonomy

// NewLoadError creates an error for a missing or malformed source file.
func NewLoadError(message string, cause error) *AppError {
	return NewAppError(ErrTypeLoad, message, cause)
}

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewUnknownCodeError creates an error for an unrecognized borough code.
// Such rows are never silently dropped or defaulted.
func NewUnknownCodeError(code int) *AppError {
	return NewAppError(ErrTypeUnknownCode,
		fmt.Sprintf("unrecognized borough code %d", code), nil).
		WithContext("code", code)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ErrTypeValidation, message, cause)
}

// NewInsufficientDataError creates an error for a partition too small to
// support a two-parameter fit with usable inference.
func NewInsufficientDataError(partition string, n int) *AppError {
	return NewAppError(ErrTypeInsufficientData,
		fmt.Sprintf("partition %s has %d records, need at least 3 for a two-parameter fit", partition, n), nil).
		WithContext("partition", partition).
		WithContext("sample_size", n)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
