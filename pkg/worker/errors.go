package worker

import "errors"

// Errors returned by Worker.Start. They can be checked with errors.Is.
var (
	// ErrAborted is returned when a stop flag was already raised at the
	// moment Start was called. The Worker remains in the not-started state.
	ErrAborted = errors.New("worker: stop already signalled")

	// ErrAlreadyStarted is returned when Start is called on a Worker that
	// has not been stopped since its previous Start.
	ErrAlreadyStarted = errors.New("worker: already started")
)
