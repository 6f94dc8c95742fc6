// Package record implements the validated in-memory representation of the
// stored rows: builders that construct entities from untrusted input, field
// accessors that re-validate on write, and the partial-update projector that
// turns changed field names into a single conditional storage mutation.
package record

import (
	"errors"
	"strings"
)

// ValidationError aggregates every field violation found during one
// construction or update attempt. Callers receive all messages at once rather
// than the first failure only.
type ValidationError struct {
	Messages []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Messages) == 0 {
		return "validation failed"
	}
	return strings.Join(e.Messages, " | ")
}

// AsValidationError unwraps err into a ValidationError when it carries one.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// errs is the shared error list embedded in every entity. Setters append to
// it instead of failing; the list is checked at construction and again before
// any persistence attempt.
type errs struct {
	messages []string
}

func (e *errs) add(message string) {
	e.messages = append(e.messages, message)
}

// Err returns the accumulated validation state as a single aggregated error,
// or nil when the entity holds no violations.
func (e *errs) Err() error {
	if len(e.messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: append([]string(nil), e.messages...)}
}
