package tracker

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the record does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated is returned when no user session is present.
	ErrUnauthenticated = errors.New("no active session")
	// ErrConflict is returned when an id is already taken by another record.
	ErrConflict = errors.New("conflict")
)

// ValidationError describes invalid input keyed by field.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}

	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v.FieldErrors[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// Add records a field level validation error. The first message per field wins.
func (v *ValidationError) Add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if _, exists := v.FieldErrors[field]; !exists {
		v.FieldErrors[field] = message
	}
}

// errOrNil returns v as an error only when it holds field errors
func (v *ValidationError) errOrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

// fieldError builds a single-field ValidationError
func fieldError(field, message string) error {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// storeError maps repository errors onto the package sentinels
func storeError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return ErrNotFound
	case strings.Contains(msg, "duplicate"):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
