package error

import "errors"

// ErrInvariantViolation marks a state that successful operations can never
// produce, such as a completed draw with a member missing a pairing row.
var ErrInvariantViolation = errors.New("invariant violation")

// InvariantError describes a broken internal invariant. It is logged
// distinctly and surfaced to callers only as a generic failure.
type InvariantError struct {
	Invariant string
	Detail    string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return "invariant violated: " + e.Invariant + ": " + e.Detail
}

// Unwrap returns ErrInvariantViolation.
func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

// Kind implements kinded.
func (e *InvariantError) Kind() Kind {
	return KindInvariant
}

// NewInvariantError creates a new InvariantError.
func NewInvariantError(invariant, detail string) *InvariantError {
	return &InvariantError{
		Invariant: invariant,
		Detail:    detail,
	}
}
