package errors

import (
	"errors"
	"fmt"
)

// The client surfaces exactly three kinds of failure. The set is closed on
// purpose: call sites switch on the kind instead of probing ad-hoc fields,
// and the request gateway is the only place transport failures are
// translated into these kinds.

// ValidationError reports input rejected on the client before any I/O.
// Always recoverable: the user corrects the input and retries.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// APIError reports a reachable server that returned a business failure, or
// a transport/HTTP failure unrelated to authorization. Status is the HTTP
// status code when known, 0 otherwise.
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// AuthError reports that no valid session exists or that the server
// declared the session invalid. Terminal for the current flow: the session
// is cleared and the user returns to the login entry point.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// Validation creates a ValidationError.
func Validation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Validationf creates a ValidationError with a formatted message.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// API creates an APIError. Pass status 0 when the HTTP status is unknown.
func API(message string, status int) *APIError {
	return &APIError{Message: message, Status: status}
}

// Auth creates an AuthError.
func Auth(message string) *AuthError {
	return &AuthError{Message: message}
}

// IsValidation reports whether any error in err's chain is a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsAPI reports whether any error in err's chain is an APIError.
func IsAPI(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

// IsAuth reports whether any error in err's chain is an AuthError.
func IsAuth(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

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
