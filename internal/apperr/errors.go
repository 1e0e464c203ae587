// Package apperr defines the error taxonomy shared by the inventory core.
// Services return these; handlers translate them to HTTP status codes in
// one place instead of inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStorage           = errors.New("storage failure")
)

// Error carries a caller-facing message on top of one of the sentinel kinds.
type Error struct {
	kind  error
	cause error
	msg   string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newError(ErrValidation, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newError(ErrConflict, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newError(ErrNotFound, format, args...)
}

func InsufficientStock(format string, args ...interface{}) *Error {
	return newError(ErrInsufficientStock, format, args...)
}

// Storage wraps an underlying storage/driver error. The original cause stays
// reachable through errors.Is/As for callers that retry.
func Storage(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{kind: ErrStorage, cause: err, msg: "storage failure: " + err.Error()}
}

// HTTPStatus maps an error to the status code the API surfaces.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return 400
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrConflict):
		return 409
	case errors.Is(err, ErrInsufficientStock):
		return 409
	default:
		return 500
	}
}
