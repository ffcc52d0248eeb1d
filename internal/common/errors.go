package common

import (
	"errors"
	"fmt"
)

// Error categories. Handlers map these onto HTTP statuses with errors.Is,
// so every error surfaced by a service should wrap one of them.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
	ErrConflict     = errors.New("conflicting state")
)

// AppError carries a category sentinel plus human-readable context.
type AppError struct {
	Kind    error
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

// Is lets errors.Is(err, ErrConflict) match without unwrapping the cause.
func (e *AppError) Is(target error) bool {
	return e.Kind == target
}

// NewAppError builds an AppError in the given category.
func NewAppError(kind error, message string, cause error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// WrapError is NewAppError that passes nil causes through.
func WrapError(kind error, message string, cause error) error {
	if cause == nil {
		return nil
	}
	return NewAppError(kind, message, cause)
}
