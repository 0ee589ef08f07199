// Package apperrors defines the error taxonomy surfaced to API callers.
// Storage errors are passed through untouched; only these three classes
// carry HTTP semantics (400, 404, 409).
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError rejects malformed or policy-violating input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Validation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError signals an unknown site, incident, type or contact.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// DuplicateTypeError signals an incident type name collision within a site.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("incident type %q already exists for this site", e.Name)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func IsDuplicateType(err error) bool {
	var de *DuplicateTypeError
	return errors.As(err, &de)
}
