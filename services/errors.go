package services

import "fmt"

// ValidationError covers malformed or incomplete input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthorizationError is returned for wrong-role and wrong-scope access. The
// message stays generic so callers learn nothing about hostel assignments.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

// StateConflictError is returned when a transition is attempted from the
// wrong status, including when a concurrent reviewer won the race.
type StateConflictError struct {
	Message string
}

func (e *StateConflictError) Error() string { return e.Message }

// NotFoundError is returned for unknown identifiers on authenticated lookups.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// CooldownError carries the machine-readable fields the client UI renders.
type CooldownError struct {
	Message          string `json:"message"`
	DaysRemaining    int    `json:"days_remaining"`
	CanReapplyDate   string `json:"can_reapply_date"`
	LastApprovedDate string `json:"last_approved_date"`
}

func (e *CooldownError) Error() string { return e.Message }

// RenderingError aborts a dean approval; the whole transaction is rolled
// back so the certificate number and code are never burned.
type RenderingError struct {
	Err error
}

func (e *RenderingError) Error() string {
	return fmt.Sprintf("certificate rendering failed: %v", e.Err)
}

func (e *RenderingError) Unwrap() error { return e.Err }
