// File: api/handler.go
// Package api defines the session Handler contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Handler drives all I/O for one logical session over an established
// transport.
//
// A Handler is invoked exactly once per session and returns a completion
// signal for the caller to observe. After the signal resolves the handler
// must not issue further session operations. Buffers passed to the handler
// belong to the operation that produced them; a handler that wants to keep
// one must Retain it.
type Handler interface {
	// SubProtocols returns the ordered list of sub-protocol names this
	// handler supports, consulted during connection negotiation before
	// the session is established. Empty means no sub-protocol.
	SubProtocols() []string

	// Handle drives the session and returns the handler's completion
	// signal. Failure is reported only through the signal, never by a
	// synchronous error or panic.
	Handle(s Session) *Completion
}

// BaseHandler supplies the default empty sub-protocol list. Embed it in
// handlers that do not negotiate a sub-protocol.
type BaseHandler struct{}

// SubProtocols returns no sub-protocols.
func (BaseHandler) SubProtocols() []string { return nil }
