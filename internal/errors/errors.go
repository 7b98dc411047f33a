package errors

import (
	"errors"
	"fmt"
)

// Common error types for the hive telemetry server
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAPIKeyNotFound     = errors.New("api key not found")
	ErrAPIKeyInactive     = errors.New("api key inactive")

	// Authorization errors
	ErrCrossTenant = errors.New("resource belongs to another organisation")

	// Validation errors
	ErrInvalidRequest = errors.New("invalid request")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// PublicError carries a message that is safe to return to API callers. It matches its Kind
// with Is, so callers can still branch on the sentinel.
type PublicError struct {
	Kind error
	Msg  string
}

func (e *PublicError) Error() string {
	return e.Msg
}

func (e *PublicError) Is(target error) bool {
	return target == e.Kind
}

// Invalidf returns an ErrInvalidRequest carrying a caller-facing message.
func Invalidf(format string, args ...interface{}) error {
	return &PublicError{Kind: ErrInvalidRequest, Msg: fmt.Sprintf(format, args...)}
}

// Conflictf returns an ErrConflict carrying a caller-facing message.
func Conflictf(format string, args ...interface{}) error {
	return &PublicError{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

// CrossTenantf returns an ErrCrossTenant carrying a caller-facing message.
func CrossTenantf(format string, args ...interface{}) error {
	return &PublicError{Kind: ErrCrossTenant, Msg: fmt.Sprintf(format, args...)}
}

// PublicMessage returns the caller-facing message in err's chain, if any
func PublicMessage(err error) (string, bool) {
	var pe *PublicError
	if errors.As(err, &pe) {
		return pe.Msg, true
	}
	return "", false
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
