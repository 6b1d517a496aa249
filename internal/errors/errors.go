package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the gateway, the backend client and the board client
var (
	// Configuration errors
	ErrMissingConfig = errors.New("missing configuration")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRateLimited        = errors.New("too many attempts")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidSession  = errors.New("invalid session")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")

	// Backend errors
	ErrUpstream = errors.New("upstream request failed")
	ErrNetwork  = errors.New("backend unreachable")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
