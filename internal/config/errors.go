package config

import "errors"

// ErrInvalidConfig wraps every validation failure; ErrLoadConfig wraps file,
// env and decode failures. Callers tell them apart with errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrLoadConfig    = errors.New("configuration could not be loaded")
)
