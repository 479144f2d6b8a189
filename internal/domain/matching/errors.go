package matching

import "errors"

// Sentinel errors for the matching stages.
var (
	// ErrInsufficientParticipants is never returned by Engine; the result
	// carries model.StatusInsufficientParticipants instead. Callers that
	// prefer an error can use AsError.
	ErrInsufficientParticipants = errors.New("insufficient participants")
	// ErrDuplicateProfile means two profiles passed to the selector share an id.
	ErrDuplicateProfile = errors.New("duplicate profile id")
)
