package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique key is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation marks business-rule violations on caller input.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized is returned when an operation requires an authenticated user.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// RegistrationError is returned when an account cannot be created.
type RegistrationError struct {
	Msg string
}

func (e *RegistrationError) Error() string { return e.Msg }

func (e *RegistrationError) Is(target error) bool { return target == ErrValidation }
