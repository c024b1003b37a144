// Package handshake parses the plain-text handshake response a relay server
// returns when a client session is established.
//
// The response is a newline-delimited blob of "Prefix: value" lines. Single
// valued fields (upgrade version, PSK, SSH credentials) keep the last
// occurrence; Homepage and Server lines accumulate. Unknown and blank lines
// are skipped. Parsing always succeeds; semantic validation is the caller's
// concern.
package handshake
