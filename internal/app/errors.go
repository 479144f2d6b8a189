package service

import "errors"

// Sentinel errors returned by the Service.
var (
	ErrNotStarted           = errors.New("service not started")
	ErrTooManyParticipants  = errors.New("too many participants")
	ErrInvalidExpectedCount = errors.New("expected participant count must not be negative")
)
