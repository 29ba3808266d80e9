package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Precondition violations are returned as values, never panics. Idempotence
// collisions (duplicate badge or goal award) are absorbed by the storage
// layer and do not surface as errors.

var (
	// Grant errors
	ErrUserNotFound = errors.New("user not found")
	ErrZeroPoints   = errors.New("grant must carry a non-zero point amount")

	// Shop errors
	ErrItemNotFound       = errors.New("item not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrAlreadyOwned       = errors.New("already owned")
)
