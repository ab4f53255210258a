package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a kind of failure independent of its message
type ErrorCode struct {
	Code        string
	Category    string
	Description string
}

var (
	ErrCodeValidation      = ErrorCode{Code: "VALIDATION_FAILURE", Category: "client", Description: "Input failed validation or a consistency rule"}
	ErrCodeNotFound        = ErrorCode{Code: "NOT_FOUND", Category: "client", Description: "Record does not exist or was removed"}
	ErrCodeNotFoundInScope = ErrorCode{Code: "NOT_FOUND_IN_SCOPE", Category: "client", Description: "Record exists but is outside the caller's scope"}
	ErrCodeUnauthorized    = ErrorCode{Code: "UNAUTHORIZED", Category: "auth", Description: "Missing, invalid or expired credentials"}
	ErrCodeForbidden       = ErrorCode{Code: "FORBIDDEN", Category: "auth", Description: "Caller lacks permission for this resource"}
	ErrCodeInvalidRole     = ErrorCode{Code: "INVALID_ROLE", Category: "auth", Description: "Role name is not recognized"}
	ErrCodeConflict        = ErrorCode{Code: "RELATIONSHIP_CONFLICT", Category: "client", Description: "Record is still referenced by other records"}
	ErrCodeInternal        = ErrorCode{Code: "INTERNAL", Category: "server", Description: "Unexpected server failure"}
)

// ErrRecordNotFound is returned by stores when no live row matches
var ErrRecordNotFound = errors.New("record not found")

// Error is the error type surfaced to API callers
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    interface{}
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Is reports whether target carries the same error code
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Code == t.Code.Code
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError builds an Error with an explicit status code
func NewError(code ErrorCode, message string, statusCode int, details interface{}) *Error {
	return &Error{Code: code, Message: message, StatusCode: statusCode, Details: details}
}

func Validation(format string, args ...interface{}) *Error {
	return NewError(ErrCodeValidation, fmt.Sprintf(format, args...), http.StatusBadRequest, nil)
}

// InvalidID is returned when an id parameter is not a well-formed identifier
func InvalidID() *Error {
	return Validation("Invalid id")
}

func NotFound(message string) *Error {
	return NewError(ErrCodeNotFound, message, http.StatusNotFound, nil)
}

// NotFoundInScope marks a record that exists but is hidden from the caller
func NotFoundInScope(message string) *Error {
	return NewError(ErrCodeNotFoundInScope, message, http.StatusNotFound, nil)
}

func Unauthorized(message string) *Error {
	return NewError(ErrCodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func Forbidden(message string) *Error {
	return NewError(ErrCodeForbidden, message, http.StatusForbidden, nil)
}

func InvalidRole(name string) *Error {
	return NewError(ErrCodeInvalidRole, "Invalid role", http.StatusForbidden, map[string]string{"role": name})
}

func Conflict(message string) *Error {
	return NewError(ErrCodeConflict, message, http.StatusConflict, nil)
}

// Internal wraps an unexpected failure; the cause is kept for logging only
func Internal(cause error) *Error {
	e := NewError(ErrCodeInternal, "Internal server error", http.StatusInternalServerError, nil)
	e.cause = cause
	return e
}

// HasCode reports whether err is a *Error with the given code
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code.Code == code.Code
	}
	return false
}

// AsError converts any error into an *Error, wrapping unknown errors as Internal
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
