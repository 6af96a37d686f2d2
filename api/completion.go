// Package api
// Author: momentics <momentics@gmail.com>
//
// Asynchronous completion signal returned by session handlers.

package api

import "sync"

// Completion is a one-shot asynchronous outcome observable by the caller:
// it resolves successfully, resolves with failure, or is cancelled from
// outside. The first outcome wins; later outcomes are ignored.
type Completion struct {
	done chan struct{}
	once sync.Once
	err  error
}

// NewCompletion returns an unresolved completion.
func NewCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Resolve marks the completion successful.
func (c *Completion) Resolve() {
	c.complete(nil)
}

// Fail marks the completion failed. A nil err is coerced to
// ErrSessionFailed so failure is never silent.
func (c *Completion) Fail(err error) {
	if err == nil {
		err = ErrSessionFailed
	}
	c.complete(err)
}

// Cancel marks the completion cancelled by the caller. A well-behaved
// handler observes Done and stops issuing session operations.
func (c *Completion) Cancel() {
	c.complete(ErrCancelled)
}

// Done returns a channel closed once the completion has an outcome.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Err returns the outcome: nil while unresolved or on success, the failure
// or cancellation cause otherwise.
func (c *Completion) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}

func (c *Completion) complete(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.done)
	})
}
