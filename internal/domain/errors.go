package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Recipe errors
	ErrMsgRecipeNotFound = "recipe not found"
	ErrMsgRecipeNotPaid  = "recipe is not paid content"

	// Unlock errors
	ErrMsgAlreadyUnlocked       = "recipe already unlocked"
	ErrMsgUnlockInProgress      = "unlock already in progress"
	ErrMsgUnlockNotFound        = "unlock record not found"
	ErrMsgConflict              = "unlock was resolved concurrently"
	ErrMsgAuthorizationDeclined = "payment authorization declined"
	ErrMsgAuthorizationTimeout  = "payment authorization timed out"

	// Interaction errors
	ErrMsgClockSkewTooLarge = "event timestamp too far in the future"
	ErrMsgUnknownEventType  = "unknown event type"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Recipe errors
	ErrRecipeNotFound = errors.New(ErrMsgRecipeNotFound)
	ErrRecipeNotPaid  = errors.New(ErrMsgRecipeNotPaid)

	// Unlock errors. ErrAlreadyUnlocked is success-shaped: callers treat it as
	// a completed purchase, not a failure.
	ErrAlreadyUnlocked       = errors.New(ErrMsgAlreadyUnlocked)
	ErrUnlockInProgress      = errors.New(ErrMsgUnlockInProgress)
	ErrUnlockNotFound        = errors.New(ErrMsgUnlockNotFound)
	ErrConflict              = errors.New(ErrMsgConflict)
	ErrAuthorizationDeclined = errors.New(ErrMsgAuthorizationDeclined)
	ErrAuthorizationTimeout  = errors.New(ErrMsgAuthorizationTimeout)

	// Interaction errors
	ErrClockSkewTooLarge = errors.New(ErrMsgClockSkewTooLarge)
	ErrUnknownEventType  = errors.New(ErrMsgUnknownEventType)

	// Validation errors
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
