package model

import "errors"

// Common errors used across the application
var (
	// Registration errors
	ErrNotRegistered     = errors.New("player is not registered")
	ErrAlreadyRegistered = errors.New("player is already registered")

	// Validation errors
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient gold")
	ErrInvalidTarget     = errors.New("invalid target player")
	ErrUnknownSwordKey   = errors.New("unknown sword")

	// Persistence errors
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrSnapshotNotFound       = errors.New("snapshot not found")
)
