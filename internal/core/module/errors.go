package module

import "errors"

var (
	ErrSharedMemoryUnavailable = errors.New("shared memory is not available")
	ErrVariantUnsupported      = errors.New("module variant unsupported by host")
	ErrUnknownVariant          = errors.New("unknown module variant")
	ErrUnnamedVariant          = errors.New("module variant has no name")
	ErrDuplicateVariant        = errors.New("module variant listed twice")
)
