package wallet

import "errors"

// Error kinds returned by the ledger. They are always wrapped with a detailed
// message, test them with errors.Is.
var (
	// ErrInsufficientCapital is returned when a spend or withdrawal exceeds a portfolio's current capital.
	ErrInsufficientCapital = errors.New("insufficient capital")
	// ErrInsufficientSavings is returned when an expense exceeds the savings balance.
	ErrInsufficientSavings = errors.New("insufficient savings")
	// ErrInvalidState is returned when an operation targets a trade in the wrong lifecycle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrValidation is returned for malformed input: non-positive numbers, empty names, bad snapshots.
	ErrValidation = errors.New("validation error")
	// ErrPersistence is returned when the store rejected or could not confirm a write.
	ErrPersistence = errors.New("persistence failure")
	// ErrNotFound is returned for unknown portfolio, trade or expense ids.
	ErrNotFound = errors.New("not found")
)
