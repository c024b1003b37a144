package worker

import "sync/atomic"

// Flag is a boolean stop signal safe for concurrent use.
// The setter publishes with a release store; readers observe with an acquire
// load, so a raised flag is visible to a worker on its next check.
type Flag struct {
	v atomic.Bool
}

// Set raises the flag. A raised flag stays raised until Clear.
func (f *Flag) Set() {
	f.v.Store(true)
}

// Clear lowers the flag.
func (f *Flag) Clear() {
	f.v.Store(false)
}

// IsSet reports whether the flag is raised.
func (f *Flag) IsSet() bool {
	return f.v.Load()
}

// StopSet is an ordered collection of stop flags. A Worker's composite stop
// signal is the logical OR of its set: {internal, external}.
type StopSet []*Flag

// Raised reports whether any flag in the set is raised.
func (s StopSet) Raised() bool {
	for _, f := range s {
		if f.IsSet() {
			return true
		}
	}
	return false
}
