// Package log provides the logging abstraction used across conduit.
//
// Core packages accept the Logger interface instead of a concrete logging
// library. A zerolog-backed implementation is provided for the daemon, and a
// no-op logger for tests and embedders that do not want output.
//
// # Usage
//
// Wrap an existing zerolog.Logger:
//
//	logger := log.NewZerologLogger(zl)
//
// Or discard everything:
//
//	logger := log.NewNoopLogger()
package log
