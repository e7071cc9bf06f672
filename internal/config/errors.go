package config

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingValue  = errors.New("value is required")
	ErrOutOfRange    = errors.New("value out of range")
)
