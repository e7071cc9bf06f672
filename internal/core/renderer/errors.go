package renderer

import "errors"

var (
	ErrEmptyImage = errors.New("vector image is empty")
	ErrClosed     = errors.New("canvas is closed")
)
