package model

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a complaint ID does not exist in the store.
var ErrNotFound = errors.New("complaint not found")

// ValidationError reports a missing or invalid field at creation time.
// Recoverable by the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError reports an illegal status change, naming both states.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// InvalidStateError reports a status value outside the canonical lifecycle,
// found in a complaint's history. Indicates corrupt data for that record.
type InvalidStateError struct {
	ComplaintID string
	Status      Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("complaint %s: unknown status %q in history", e.ComplaintID, e.Status)
}
