package domain

import "errors"

var (
	// ErrInvalidCombination marks a card set matching no legal shape.
	// Reaching it through the legality engine is a caller bug.
	ErrInvalidCombination = errors.New("invalid combination")

	// ErrIllegalAction marks an action outside the legal set for the acting
	// player at the current state. It is surfaced to the driver, never
	// silently corrected.
	ErrIllegalAction = errors.New("illegal action")
)
