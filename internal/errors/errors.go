package errors

import (
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err is an AppError carrying the given code
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes
const (
	CodeInsufficientData     = "INSUFFICIENT_DATA"
	CodeDegenerateInput      = "DEGENERATE_INPUT"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
	CodeNumericalInstability = "NUMERICAL_INSTABILITY"
	CodeConfigInvalid        = "CONFIG_INVALID"
	CodeDatabaseError        = "DATABASE_ERROR"
	CodeInternalError        = "INTERNAL_ERROR"
)

// Common error constructors

// InsufficientData marks a series or sample too short for the requested statistic.
func InsufficientData(message string) *AppError {
	return New(CodeInsufficientData, message)
}

// DegenerateInput marks zero-variance populations, empty masks, or empty
// neighbor sets where a statistic cannot be normalized.
func DegenerateInput(message string) *AppError {
	return New(CodeDegenerateInput, message)
}

// InvalidConfiguration marks out-of-range parameters, unknown method names,
// and malformed inputs such as unsorted or duplicated timestamps.
func InvalidConfiguration(message string) *AppError {
	return New(CodeInvalidConfiguration, message)
}

// NumericalInstability marks a non-finite value surfacing from a computation.
func NumericalInstability(message string) *AppError {
	return New(CodeNumericalInstability, message)
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
