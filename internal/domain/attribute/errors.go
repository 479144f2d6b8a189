package attribute

import "errors"

// Sentinel errors returned by Parse.
var (
	ErrBlank            = errors.New("blank value")
	ErrUnknownValue     = errors.New("unknown value")
	ErrUnknownDimension = errors.New("unknown dimension")
)
