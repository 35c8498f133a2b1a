package earning

import "errors"

var (
	ErrInvalidAmount        = errors.New("earning amount must be positive")
	ErrInvalidSource        = errors.New("unknown earning source")
	ErrInvalidStatus        = errors.New("unknown earning status")
	ErrNotFound             = errors.New("earning not found")
	ErrEmptyClaim           = errors.New("claim must reference at least one earning")
	ErrBelowMinimum         = errors.New("claim total is below the minimum threshold")
	ErrNotOwnedOrNotPending = errors.New("earning is not owned by the agent or no longer pending")
	ErrClaimNotFound        = errors.New("claim not found")
	ErrAlreadySettled       = errors.New("claim already settled")
)
