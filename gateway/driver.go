// File: gateway/driver.go
// Package gateway drives session handlers over established transport
// sessions.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package gateway

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/momentics/hioload-gw/api"
)

// Driver invokes a Handler exactly once per established session and
// coordinates closure from the handler's completion signal. The driver
// observes the signal; it never closes the session underneath a handler
// that is still running.
type Driver struct {
	logger *log.Logger
}

// NewDriver returns a driver logging to the logrus standard logger.
func NewDriver() *Driver {
	return &Driver{logger: log.StandardLogger()}
}

// WithLogger replaces the driver's logger.
func (d *Driver) WithLogger(l *log.Logger) *Driver {
	d.logger = l
	return d
}

// Serve invokes h.Handle with s and waits for the handler's completion
// signal, session teardown, or ctx cancellation, whichever comes first.
//
// On success the session is closed and Serve returns nil. On handler
// failure the session is failed and the error is returned wrapped in
// api.ErrSessionFailed. When ctx is cancelled first, the completion is
// cancelled so a well-behaved handler stops issuing operations, the
// session is failed, and ctx.Err() is returned.
func (d *Driver) Serve(ctx context.Context, h api.Handler, s api.Session) error {
	fields := log.Fields{"session": s.ID()}
	if protos := h.SubProtocols(); len(protos) > 0 {
		fields["subprotocols"] = protos
	}

	c := h.Handle(s)
	if c == nil {
		err := fmt.Errorf("%w: handler returned no completion", api.ErrSessionFailed)
		_ = s.Fail(err)
		return err
	}
	d.logger.WithFields(fields).Debug("gateway: handler started")

	select {
	case <-c.Done():
		if err := c.Err(); err != nil {
			_ = s.Fail(err)
			d.logger.WithFields(fields).WithError(err).Debug("gateway: session failed")
			return fmt.Errorf("%w: %w", api.ErrSessionFailed, err)
		}
		_ = s.Close()
		d.logger.WithFields(fields).Debug("gateway: session completed")
		return nil
	case <-s.Done():
		// Transport tore the session down underneath the handler.
		c.Cancel()
		d.logger.WithFields(fields).Debug("gateway: session torn down by transport")
		if s.State() == api.StateFailed {
			return api.ErrSessionFailed
		}
		return nil
	case <-ctx.Done():
		c.Cancel()
		_ = s.Fail(ctx.Err())
		d.logger.WithFields(fields).Debug("gateway: session cancelled")
		return ctx.Err()
	}
}
