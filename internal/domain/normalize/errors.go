package normalize

import (
	"errors"
	"fmt"
)

// ErrInvalidProfile marks a record excluded from pairing. It is never fatal.
var ErrInvalidProfile = errors.New("invalid profile")

// SkipReason classifies why a record was excluded.
type SkipReason string

// Skip reasons reported by Normalize.
const (
	SkipMissingIdentity SkipReason = "missing_identity"
	SkipMissingField    SkipReason = "missing_field"
	SkipUnknownValue    SkipReason = "unknown_value"
	SkipBadTimestamp    SkipReason = "bad_timestamp"
	SkipStale           SkipReason = "stale"
	SkipSuperseded      SkipReason = "superseded"
)

// InvalidProfileError describes a rejected record. It matches
// ErrInvalidProfile under errors.Is.
type InvalidProfileError struct {
	Reason SkipReason
	Field  string
	Err    error
}

func (e *InvalidProfileError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("invalid profile (%s) %s: %v", e.Reason, e.Field, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("invalid profile (%s): %v", e.Reason, e.Err)
	default:
		return fmt.Sprintf("invalid profile (%s)", e.Reason)
	}
}

// Is lets errors.Is(err, ErrInvalidProfile) succeed.
func (e *InvalidProfileError) Is(target error) bool { return target == ErrInvalidProfile }

func (e *InvalidProfileError) Unwrap() error { return e.Err }

func invalid(reason SkipReason, field string, err error) error {
	return &InvalidProfileError{Reason: reason, Field: field, Err: err}
}
