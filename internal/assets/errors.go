package assets

import "errors"

var (
	ErrNotFound    = errors.New("asset not found")
	ErrInvalidName = errors.New("invalid asset name")
)
