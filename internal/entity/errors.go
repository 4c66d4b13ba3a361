package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors produced by the repository. Handlers map these to HTTP
// status codes; services wrap them with id/operation context via %w.
var (
	// ErrIDRequired is returned by id-addressed operations given an empty id.
	ErrIDRequired = errors.New("id is required")

	// ErrNotFound is returned when no entity exists at the given id.
	ErrNotFound = errors.New("entity not found")

	// ErrRowNumberNotFound is returned when a fetched entity carries no row
	// position. Position 0 would collide with the header row, so this never
	// holds for a real entity and indicates a store inconsistency.
	ErrRowNumberNotFound = errors.New("row number not found")

	// ErrNotCreated is returned when the confirming re-fetch after an append
	// finds nothing: the write was issued, but the document disagrees.
	ErrNotCreated = errors.New("entity not created")

	// ErrNotUpdated is returned when the confirming re-fetch after a row
	// overwrite finds nothing.
	ErrNotUpdated = errors.New("entity not updated")
)

// IsInconsistency reports whether err indicates that the document and the
// application disagree about a mutation's outcome.
func IsInconsistency(err error) bool {
	return errors.Is(err, ErrNotCreated) || errors.Is(err, ErrNotUpdated) || errors.Is(err, ErrRowNumberNotFound)
}

// ConflictError reports a delete or update blocked by a referential or
// reserved-entity rule.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// Conflictf builds a ConflictError.
func Conflictf(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError carries one or more field-level input defects.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a defect for a field, keeping the first message per field.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
	return e
}

// Empty reports whether no defects were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns nil when no defects were recorded, so validators can end with
// "return v.OrNil()".
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e.Fields[f]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
