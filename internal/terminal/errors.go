package terminal

import "errors"

// Sentinel errors for the terminal package.
var (
	// ErrInvalidSize is returned when a grid dimension is less than one.
	ErrInvalidSize = errors.New("invalid terminal size")

	// ErrTooLarge is returned when the requested grid exceeds MaxCells.
	ErrTooLarge = errors.New("terminal size exceeds cell limit")

	// ErrOutOfBounds is returned when a coordinate lies outside the grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrSessionDestroyed is returned when a session is used after Destroy.
	// Reaching it is a caller bug, not a recoverable condition.
	ErrSessionDestroyed = errors.New("session is destroyed")
)
