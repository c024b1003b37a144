package worker

// Task is the hook set a Worker drives. Implementations run entirely on the
// Worker's goroutine; none of the hooks are called concurrently.
//
// Hooks may panic. The Worker recovers every panic, treats it as a failure of
// the hook, and proceeds to Teardown; panics never propagate out of the
// worker goroutine.
type Task interface {
	// Setup is called once at body entry. Returning false aborts the
	// worker before the started event is set.
	Setup() bool

	// Tick is called once per loop interval while the worker runs.
	// Returning false requests an unclean stop.
	Tick() bool

	// Teardown is always called on body exit, regardless of path.
	Teardown()
}

// StopNotifier is an optional Task capability. When the worker group agrees
// on a clean stop, StopImminent is called between the two rendezvous
// barriers, before any peer begins Teardown.
type StopNotifier interface {
	StopImminent()
}
