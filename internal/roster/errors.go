package roster

import "errors"

// Sentinel errors for roster loading and submission.
var (
	ErrDecode = errors.New("roster decode failed")
	ErrRemote = errors.New("remote request failed")
)
