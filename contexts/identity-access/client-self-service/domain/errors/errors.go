package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthorized = errors.New("not authorized")
	ErrForbidden     = errors.New("forbidden")
	ErrMisconfigured = errors.New("self-service clients misconfigured")
	ErrValidation    = errors.New("invalid request")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
)

// The wrap helpers attach a caller-facing message while keeping the sentinel
// matchable via errors.Is in the platform status mapping.

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func Misconfiguredf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMisconfigured, fmt.Sprintf(format, args...))
}
