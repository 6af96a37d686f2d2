package gateway_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/momentics/hioload-gw/api"
	"github.com/momentics/hioload-gw/buffer"
	"github.com/momentics/hioload-gw/fake"
	"github.com/momentics/hioload-gw/gateway"
)

// echoHandler sends a payload, reads it back, and resolves.
type echoHandler struct {
	api.BaseHandler
	rounds int
}

func (h *echoHandler) Handle(s api.Session) *api.Completion {
	c := api.NewCompletion()
	go func() {
		f := buffer.NewHeapFactory()
		for i := 0; i < h.rounds; i++ {
			if err := s.Send(f.Wrap([]byte{byte(i)})); err != nil {
				c.Fail(err)
				return
			}
			got, err := s.Receive()
			if err != nil {
				c.Fail(err)
				return
			}
			got.Release()
		}
		c.Resolve()
	}()
	return c
}

// failingHandler sends `before` payloads, then fails without issuing any
// further operation.
type failingHandler struct {
	api.BaseHandler
	before int
	cause  error
}

func (h *failingHandler) Handle(s api.Session) *api.Completion {
	c := api.NewCompletion()
	go func() {
		f := buffer.NewHeapFactory()
		for i := 0; i < h.before; i++ {
			if err := s.Send(f.Wrap([]byte("pre"))); err != nil {
				c.Fail(err)
				return
			}
		}
		c.Fail(h.cause)
	}()
	return c
}

// blockingHandler waits in Receive until the session is torn down.
type blockingHandler struct {
	api.BaseHandler
	recvErr chan error
}

func (h *blockingHandler) Handle(s api.Session) *api.Completion {
	c := api.NewCompletion()
	go func() {
		_, err := s.Receive()
		h.recvErr <- err
		c.Fail(err)
	}()
	return c
}

type nilHandler struct {
	api.BaseHandler
}

func (nilHandler) Handle(api.Session) *api.Completion { return nil }

func TestServeSuccessClosesSession(t *testing.T) {
	s := fake.NewSession("echo")
	err := gateway.NewDriver().Serve(context.Background(), &echoHandler{rounds: 3}, s)
	if err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if s.State() != api.StateClosed {
		t.Errorf("state = %v, want closed", s.State())
	}
}

func TestServeFailurePropagatesCause(t *testing.T) {
	cause := errors.New("bad frame")
	s := fake.NewSession("fail")
	err := gateway.NewDriver().Serve(context.Background(), &failingHandler{before: 2, cause: cause}, s)

	if !errors.Is(err, api.ErrSessionFailed) {
		t.Errorf("err = %v, want ErrSessionFailed", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("err = %v, want wrapped cause %v", err, cause)
	}
	if s.State() != api.StateFailed {
		t.Errorf("state = %v, want failed", s.State())
	}
	// Nothing was sent past the point of failure.
	if got := s.Queued(); got != 2 {
		t.Errorf("queued sends = %d, want 2", got)
	}
}

func TestServeContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := &blockingHandler{recvErr: make(chan error, 1)}
	s := fake.NewSession("cancel")

	done := make(chan error, 1)
	go func() {
		done <- gateway.NewDriver().Serve(ctx, h, s)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve hung after cancellation")
	}

	// The in-flight receive failed instead of hanging.
	select {
	case err := <-h.recvErr:
		if err == nil {
			t.Error("in-flight Receive returned nil after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("in-flight Receive hung after cancellation")
	}
	if s.State() != api.StateFailed {
		t.Errorf("state = %v, want failed", s.State())
	}
}

func TestServeTransportTeardown(t *testing.T) {
	h := &blockingHandler{recvErr: make(chan error, 1)}
	s := fake.NewSession("teardown")

	done := make(chan error, 1)
	go func() {
		done <- gateway.NewDriver().Serve(context.Background(), h, s)
	}()

	time.Sleep(10 * time.Millisecond)
	s.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve after clean teardown = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve hung after transport teardown")
	}
}

func TestServeNilCompletion(t *testing.T) {
	s := fake.NewSession("nil")
	err := gateway.NewDriver().Serve(context.Background(), nilHandler{}, s)
	if !errors.Is(err, api.ErrSessionFailed) {
		t.Errorf("err = %v, want ErrSessionFailed", err)
	}
	if s.State() != api.StateFailed {
		t.Errorf("state = %v, want failed", s.State())
	}
}
