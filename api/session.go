// File: api/session.go
// Author: momentics <momentics@gmail.com>
//
// Session abstraction handed to a Handler. The physical I/O, framing and
// sub-protocol negotiation belong to the transport implementing this
// interface; bytes are opaque payloads at this layer.

package api

// SessionState tracks the lifecycle of a logical connection.
type SessionState int32

const (
	// StateOpen: session established, handler invoked but no exchange yet.
	StateOpen SessionState = iota
	// StateActive: handler is exchanging buffers.
	StateActive
	// StateClosed: normal completion.
	StateClosed
	// StateFailed: transport or handler failure.
	StateFailed
)

// String returns the state name for logging.
func (s SessionState) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state admits no further operations.
func (s SessionState) Terminal() bool {
	return s == StateClosed || s == StateFailed
}

// Session is one logical connection lifetime over a transport, exposing
// buffer-based send and receive operations to a Handler.
//
// No operation is valid once the session reaches StateClosed or
// StateFailed; implementations return ErrSessionClosed for such calls, and
// in-flight operations fail rather than hang when the session is torn down.
type Session interface {
	// ID returns the unique session identifier.
	ID() string

	// State returns the current lifecycle state.
	State() SessionState

	// Send transmits the readable content of b to the peer. Send and a
	// subsequent Receive are strictly sequential as issued by the
	// handler; concurrent sends must be serialized by the session to
	// preserve byte-stream ordering.
	Send(b Buffer) error

	// Receive blocks until the next inbound payload is available or the
	// session terminates.
	Receive() (Buffer, error)

	// Close completes the session normally. Idempotent with Fail; the
	// first terminal transition wins.
	Close() error

	// Fail moves the session to StateFailed with the given cause.
	Fail(err error) error

	// Done returns a channel closed when the session reaches a terminal
	// state.
	Done() <-chan struct{}
}
