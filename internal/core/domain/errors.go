package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("invalid input")
	ErrInvalidTransition  = errors.New("transition not allowed from current status")
	ErrConflict           = errors.New("conflicting state")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Reconciliation errors
var (
	// ErrInconsistent marks a request whose status disagrees with the linked
	// item's occupancy. It needs reconciliation, not a retry.
	ErrInconsistent = errors.New("request and item state disagree")
)
