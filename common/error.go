package common

import "errors"

// ErrConnClosed means the peer closed the connection, possibly mid-frame
var (
	ErrConnClosed = errors.New("connection closed")
	// ErrForceShutdown means a read was abandoned because of forced shutdown
	ErrForceShutdown = errors.New("force shutdown")
	// ErrFrameTooLarge .
	ErrFrameTooLarge = errors.New("frame too large")
	// ErrServerStarted .
	ErrServerStarted = errors.New("server already started")
	// ErrInvalidSinkType .
	ErrInvalidSinkType = errors.New("unknown sink type")
	// ErrInvalidFormat .
	ErrInvalidFormat = errors.New("unknown payload format")
	// ErrInvalidCompression .
	ErrInvalidCompression = errors.New("unknown payload compression")
)
