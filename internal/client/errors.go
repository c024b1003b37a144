package client

import "errors"

// Errors returned by the client layer. They can be checked with errors.Is.
var (
	// ErrHandshakeFailed is returned when the session handshake with the
	// service could not be completed.
	ErrHandshakeFailed = errors.New("conduit: handshake failed")

	// ErrStartFailed is returned when one of the client workers could not
	// be started.
	ErrStartFailed = errors.New("conduit: worker start failed")
)
