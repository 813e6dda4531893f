// Package errors provides the error taxonomy of the oracle API.
// Every error that reaches a handler should be an AppError so the JSON
// envelope stays consistent and ledger internals are never leaked verbatim
// unless the message was chosen for the client.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so derived
// errors built with Wrap or WithMessage still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WrapWithMessage combines WithMessage and Wrap.
func WrapWithMessage(sentinel *AppError, message string, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Incorrect or missing parameters", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Ledger errors.
var (
	ErrLedger = &AppError{Code: "LEDGER_ERROR", Message: "Ledger request failed", StatusCode: http.StatusBadGateway}
)

// Security errors.
var (
	ErrUnknownSecurityType = &AppError{Code: "UNKNOWN_SECURITY_TYPE", Message: "Unknown security type", StatusCode: http.StatusBadRequest}
	ErrSecurityNotFound    = &AppError{Code: "SECURITY_NOT_FOUND", Message: "Security not found.", StatusCode: http.StatusNotFound}
	ErrNoPriceRecorded     = &AppError{Code: "NO_PRICE_RECORDED", Message: "No price recorded for the given security.", StatusCode: http.StatusNotFound}
)

// MissingParameter returns a validation error naming the offending parameter,
// e.g. "Incorrect or missing parameters (symbol)".
func MissingParameter(name string) *AppError {
	return WithMessage(ErrValidation, ErrValidation.Message+" ("+name+")")
}
