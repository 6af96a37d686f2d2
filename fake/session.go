// File: fake/session.go
// Package fake provides in-memory doubles for gateway interfaces.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package fake

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-gw/api"
)

// Session is an in-memory loopback api.Session: every buffer sent is
// queued for Receive on the same session. It implements the full state
// machine, and teardown fails in-flight receives instead of letting them
// hang.
type Session struct {
	id    string
	state atomic.Int32
	inbox chan api.Buffer
	done  chan struct{}
	once  sync.Once

	mu  sync.Mutex
	err error
}

var _ api.Session = (*Session)(nil)

// NewSession returns an open loopback session with a buffered inbox.
func NewSession(id string) *Session {
	return &Session{
		id:    id,
		inbox: make(chan api.Buffer, 64),
		done:  make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() api.SessionState {
	return api.SessionState(s.state.Load())
}

// Send queues b for Receive. The first exchange moves the session from
// open to active.
func (s *Session) Send(b api.Buffer) error {
	if s.State().Terminal() {
		return api.ErrSessionClosed
	}
	s.activate()
	select {
	case s.inbox <- b:
		return nil
	case <-s.done:
		return api.ErrSessionClosed
	}
}

// Receive returns the next queued buffer, blocking until one is sent or
// the session terminates.
func (s *Session) Receive() (api.Buffer, error) {
	if s.State().Terminal() {
		return nil, s.terminalErr()
	}
	s.activate()
	select {
	case b := <-s.inbox:
		return b, nil
	case <-s.done:
		return nil, s.terminalErr()
	}
}

// Close completes the session normally. The first terminal transition
// wins; later Close and Fail calls are no-ops.
func (s *Session) Close() error {
	s.terminate(api.StateClosed, nil)
	return nil
}

// Fail moves the session to the failed state with the given cause.
func (s *Session) Fail(err error) error {
	if err == nil {
		err = api.ErrSessionFailed
	}
	s.terminate(api.StateFailed, err)
	return nil
}

// Done returns a channel closed on the first terminal transition.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the failure cause, or nil when the session is open, active,
// or closed normally.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Queued reports how many sent buffers await Receive.
func (s *Session) Queued() int {
	return len(s.inbox)
}

func (s *Session) activate() {
	s.state.CompareAndSwap(int32(api.StateOpen), int32(api.StateActive))
}

func (s *Session) terminate(st api.SessionState, err error) {
	s.once.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		s.state.Store(int32(st))
		close(s.done)
	})
}

func (s *Session) terminalErr() error {
	if err := s.Err(); err != nil {
		return err
	}
	return api.ErrSessionClosed
}
