package timer

import "errors"

var (
	// ErrInvalidInput indicates a non-positive duration or an unknown phase.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIllegalTransition indicates a command that is not valid in the current state.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrStaleCallback marks a Tick or Complete from a generation that is no longer current.
	// It is expected during normal operation and is never surfaced to command callers.
	ErrStaleCallback = errors.New("stale callback")
)
