package platform

import "errors"

// Sentinel errors for platform operations.
var (
	// ErrClosed is returned when operating on a closed bridge.
	ErrClosed = errors.New("platform: bridge closed")

	// ErrNotConnected is returned when the bridge has no native side.
	ErrNotConnected = errors.New("platform: not connected")
)
