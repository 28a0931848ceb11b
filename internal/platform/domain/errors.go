package domain

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes domain failures so the HTTP boundary can map them.
type ErrorKind string

const (
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindValidation        ErrorKind = "VALIDATION_ERROR"
	KindInvalidState      ErrorKind = "INVALID_STATE"
	KindForbidden         ErrorKind = "FORBIDDEN"
	KindConflict          ErrorKind = "CONFLICT"
	KindCapacityExhausted ErrorKind = "CAPACITY_EXHAUSTED"
)

// DomainError is a categorized business-rule failure with a human-readable message.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewValidationError reports invalid input.
func NewValidationError(msg string) *DomainError {
	return &DomainError{Kind: KindValidation, Message: msg}
}

// NewInvalidStateError reports an illegal state transition.
func NewInvalidStateError(from, to string) *DomainError {
	return &DomainError{Kind: KindInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewForbiddenError reports that the actor may not perform the operation.
func NewForbiddenError(msg string) *DomainError {
	return &DomainError{Kind: KindForbidden, Message: msg}
}

// NewConflictError reports a concurrent modification.
func NewConflictError(msg string) *DomainError {
	return &DomainError{Kind: KindConflict, Message: msg}
}

// NewCapacityExhaustedError reports that no room units remain.
func NewCapacityExhaustedError(msg string) *DomainError {
	return &DomainError{Kind: KindCapacityExhausted, Message: msg}
}

// IsKind reports whether err (or anything it wraps) is a DomainError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}
