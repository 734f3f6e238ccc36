package domain

import (
	"errors"
	"sort"
	"strings"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure: no infrastructure dependency.

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("invalid budget input")

	// ErrBudgetNotFound is returned for an unknown budget id.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrComputation guards non-finite results and impossible arguments.
	ErrComputation = errors.New("budget computation failed")

	// ErrStore wraps persistence failures. Callers see it as opaque.
	ErrStore = errors.New("budget store failure")
)

// ValidationError lists every rejected input field with a user-facing message.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for field. The first message for a field wins.
func (e *ValidationError) Add(field, msg string) {
	if _, ok := e.Fields[field]; ok {
		return
	}
	e.Fields[field] = msg
}

// HasErrors reports whether any field was rejected.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
