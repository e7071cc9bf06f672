package server

import "errors"

// Server-specific errors
var (
	ErrServerClosed         = errors.New("server is closed")
	ErrServerNotRunning     = errors.New("server is not running")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrMaxSessionsReached   = errors.New("maximum sessions reached")
	ErrInvalidMessage       = errors.New("invalid message")
	ErrConnectionClosed     = errors.New("connection is closed")
	ErrUnknownMessageType   = errors.New("unknown message type")
	ErrHelloRequired        = errors.New("first message must be hello")
	ErrNotReady             = errors.New("module is not ready")
)
