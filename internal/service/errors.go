package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidCredentials is the single outward failure of both login paths.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates a missing, expired or revoked token.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden indicates the caller may not act on the requested rows.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrServiceUnavailable indicates an optional backend needed by the operation is not configured.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrNotFound is wrapped by every missing-record error.
	ErrNotFound = errors.New("not found")
	// ErrStudentNotFound indicates no student matches the roll number or profile.
	ErrStudentNotFound = fmt.Errorf("student %w", ErrNotFound)
	// ErrProfileNotFound indicates the caller has no profile row.
	ErrProfileNotFound = fmt.Errorf("profile %w", ErrNotFound)
	// ErrDueNotFound indicates the due does not exist.
	ErrDueNotFound = fmt.Errorf("due %w", ErrNotFound)
	// ErrRecordNotFound indicates a borrow record does not exist.
	ErrRecordNotFound = fmt.Errorf("record %w", ErrNotFound)
	// ErrFeeStructureNotFound indicates no fee structure matches the lookup.
	ErrFeeStructureNotFound = fmt.Errorf("fee structure %w", ErrNotFound)
	// ErrChallanNotFound indicates the challan does not exist.
	ErrChallanNotFound = fmt.Errorf("challan %w", ErrNotFound)
)

// ValidationError reports field-level problems with a request.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a validation error for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+e.Fields[key])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
