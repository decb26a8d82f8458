// Package moderr defines the closed error taxonomy of the moderation
// service. Every failure surfaced to callers carries a stable code plus a
// details map so clients and tests can assert on structured state.
package moderr

import "errors"

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeRateLimit    Code = "RATE_LIMIT_EXCEEDED"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeDatabase     Code = "DATABASE_ERROR"
)

type Error struct {
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func Validation(message string, details map[string]any) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

func RateLimit(message string, details map[string]any) *Error {
	return &Error{Code: CodeRateLimit, Message: message, Details: details}
}

func Unauthorized(message string, details map[string]any) *Error {
	return &Error{Code: CodeUnauthorized, Message: message, Details: details}
}

func NotFound(message string, details map[string]any) *Error {
	return &Error{Code: CodeNotFound, Message: message, Details: details}
}

// Database wraps an unexpected failure from the backing store. The
// details name the failing operation and cause so log sinks and tests
// see structured state; handlers still hide them from clients.
func Database(message string, cause error) *Error {
	details := map[string]any{"operation": message}
	if cause != nil {
		details["cause"] = cause.Error()
	}
	return &Error{Code: CodeDatabase, Message: message, Details: details, cause: cause}
}

// CodeOf extracts the taxonomy code from err, defaulting to CodeDatabase
// for anything that did not originate in this package.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeDatabase
}

// As is a convenience wrapper around errors.As for handler code.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
