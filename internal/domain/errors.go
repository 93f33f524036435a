package domain

import "fmt"

// NotFoundError reports an entity that is absent or not visible to the
// caller under its ownership scope.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InvalidTransitionError reports an illegal lifecycle move, either
// because the step itself is not legal or because a parent entity gates
// it (Reason set in that case).
type InvalidTransitionError struct {
	Entity string
	From   Status
	To     Status
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("%s cannot transition from %q to %q", e.Entity, e.From, e.To)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

// ConflictError reports a write that would violate the
// single-active-entity invariant.
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
}

// PersistenceError reports a write rejected by the backend, such as a
// unique constraint violation.
type PersistenceError struct {
	Entity string
	Reason string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s write rejected: %s", e.Entity, e.Reason)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// ExternalServiceError reports a failure in a best-effort collaborator
// (question suggestion). It must never affect lifecycle state.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
