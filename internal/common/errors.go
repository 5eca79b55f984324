package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every failure the article lifecycle surfaces wraps exactly one of these.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a kind, a human message and optional structured details.
type AppError struct {
	Kind    error
	Message string
	Details interface{}
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Kind }

func newAppError(kind error, format string, args ...interface{}) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewNotFound e.g. NewNotFound("article %s not found", id)
func NewNotFound(format string, args ...interface{}) *AppError {
	return newAppError(ErrNotFound, format, args...)
}

func NewConflict(format string, args ...interface{}) *AppError {
	return newAppError(ErrConflict, format, args...)
}

func NewForbidden(format string, args ...interface{}) *AppError {
	return newAppError(ErrForbidden, format, args...)
}

func NewValidation(format string, args ...interface{}) *AppError {
	return newAppError(ErrValidation, format, args...)
}

func NewUnauthorized(format string, args ...interface{}) *AppError {
	return newAppError(ErrUnauthorized, format, args...)
}

// WithDetails attaches details (field errors, lock holder, ...) and returns e.
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// StatusFromError maps an error kind to its HTTP status. Unknown errors are 500.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
