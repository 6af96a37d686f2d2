// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types for the gateway buffer and session layer.

package api

import "fmt"

// Errors shared across the library. Buffer errors are synchronous and
// local; session failure is surfaced only through the handler's
// completion signal.
var (
	ErrUnderflow     = fmt.Errorf("buffer: read past write cursor")
	ErrRange         = fmt.Errorf("buffer: index out of range")
	ErrAllocation    = fmt.Errorf("buffer: storage allocation failed")
	ErrSessionFailed = fmt.Errorf("session: handler failure")
	ErrSessionClosed = fmt.Errorf("session: closed")
	ErrCancelled     = fmt.Errorf("session: cancelled")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeUnderflow
	ErrCodeRange
	ErrCodeAllocation
	ErrCodeSessionFailed
	ErrCodeSessionClosed
	ErrCodeCancelled
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
