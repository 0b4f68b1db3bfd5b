package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Lookup errors
	ErrMsgNotFound       = "item or recipe not found"
	ErrMsgRecipeNotFound = "recipe not found"

	// Resolution errors
	ErrMsgPriceUnavailable = "no market price available"
	ErrMsgCyclicRecipe     = "cyclic recipe detected"

	// Snapshot errors
	ErrMsgSnapshotMissing = "no price snapshot recorded"
	ErrMsgSnapshotExists  = "snapshot already recorded for timestamp"

	// Ingestion errors
	ErrMsgInvalidRecipe = "invalid recipe"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Lookup errors
	ErrNotFound       = errors.New(ErrMsgNotFound)
	ErrRecipeNotFound = errors.New(ErrMsgRecipeNotFound)

	// Resolution errors
	ErrPriceUnavailable = errors.New(ErrMsgPriceUnavailable)
	ErrCyclicRecipe     = errors.New(ErrMsgCyclicRecipe)

	// Snapshot errors
	ErrSnapshotMissing = errors.New(ErrMsgSnapshotMissing)
	ErrSnapshotExists  = errors.New(ErrMsgSnapshotExists)

	// Ingestion errors
	ErrInvalidRecipe = errors.New(ErrMsgInvalidRecipe)
)
