// Package client implements the conduit client activities on top of the
// worker framework: relay keepalive, status reporting, and config watching,
// coordinated by a Controller that owns the shared stop flag and the
// shutdown rendezvous.
package client
