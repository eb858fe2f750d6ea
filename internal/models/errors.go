package models

import (
	"errors"
	"fmt"
)

// Domain errors. Handlers map these to response codes; anything else is an
// opaque server error.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflictingBudget = errors.New("an overlapping budget already exists for this category and period")
	ErrUnauthenticated   = errors.New("not authorized")
	ErrInvalidDateRange  = errors.New("invalid date range")
	ErrValidation        = errors.New("validation failed")
)

// ValidationError describes a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is makes errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DateRangeError carries the reason a report range was rejected.
type DateRangeError struct {
	Reason string
}

func (e *DateRangeError) Error() string {
	return e.Reason
}

// Is makes errors.Is(err, ErrInvalidDateRange) match any DateRangeError.
func (e *DateRangeError) Is(target error) bool {
	return target == ErrInvalidDateRange
}

// ErrInvalidCredentials is returned by login. It matches ErrUnauthenticated.
var ErrInvalidCredentials error = &credentialsError{}

type credentialsError struct{}

func (*credentialsError) Error() string {
	return "invalid email or password"
}

func (*credentialsError) Is(target error) bool {
	return target == ErrUnauthenticated
}
