package application

import "errors"

var (
	// ErrUnauthorized is returned when no valid credentials accompany a request.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrForbidden is returned when the acting principal lacks the role an operation requires.
	ErrForbidden = errors.New("application: forbidden")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrConflict is returned when a uniqueness rule rejects the operation.
	ErrConflict = errors.New("application: conflict")
	// ErrInvalidCredentials is returned when an email and password pair does not resolve to a user.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrInvalidID is returned when a supplied identifier is not a UUID.
	ErrInvalidID = errors.New("application: invalid id")
	// ErrOperationFailed is returned when a write did not land on exactly one row.
	ErrOperationFailed = errors.New("application: operation failed")
)
