package shared

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a domain-level error with a machine-readable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code, so errors.Is works against the sentinels
// below even for freshly constructed values.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors.
//
// ErrDuplicateIdentifier is terminal: the caller supplied a number that
// already exists for the tenant. ErrIdentifierCollision is the retryable
// variant surfaced only after a server-generated number kept colliding for
// the full retry budget.
var (
	ErrNotFound              = NewDomainError("NOT_FOUND", "Resource not found")
	ErrDuplicateIdentifier   = NewDomainError("DUPLICATE_IDENTIFIER", "A document with this number already exists")
	ErrIdentifierCollision   = NewDomainError("IDENTIFIER_COLLISION", "Failed to allocate a unique document number")
	ErrInvalidInput          = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState          = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrDependencyUnavailable = NewDomainError("DEPENDENCY_UNAVAILABLE", "A required dependency is unavailable")
	ErrUnauthorized          = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden             = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
)

// FieldError describes a single invalid field in a validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries per-field messages for client-caused failures
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends another field failure and returns the error for chaining
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// IsNotFound reports whether err resolves to ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryableCollision reports whether err is the retry-exhausted collision error
func IsRetryableCollision(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == ErrIdentifierCollision.Code
	}
	return false
}

// IsDuplicateIdentifier reports whether err is the terminal duplicate error
func IsDuplicateIdentifier(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == ErrDuplicateIdentifier.Code
	}
	return false
}
