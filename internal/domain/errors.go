package domain

import "errors"

var (
	// ErrConflict means an active booking already overlaps the requested interval.
	ErrConflict = errors.New("booking conflicts with an existing active booking")

	// ErrNotFound means the referenced booking does not exist.
	ErrNotFound = errors.New("booking not found")

	// ErrRoomNotFound means the room identifier is not in the catalog.
	ErrRoomNotFound = errors.New("room not found")

	// ErrInvalidTransition means the requested status change is not legal
	// from the booking's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden means the acting identity or role does not permit the operation.
	ErrForbidden = errors.New("operation not permitted")

	// ErrConcurrentModification is the stale-write signal from the conditional
	// update. The lifecycle manager retries once and never surfaces it to callers.
	ErrConcurrentModification = errors.New("booking was modified concurrently")

	// ErrPastStart means the interval starts before the allowed booking window.
	ErrPastStart = errors.New("booking start is in the past")

	// ErrTooFarAhead means the interval starts beyond the configured horizon.
	ErrTooFarAhead = errors.New("booking start is too far in the future")
)
