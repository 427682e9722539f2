// Foodgram - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/foodgram

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

// Compile-time interface checks.
var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*WebSocketHubService)(nil)
	_ suture.Service = (*EventRouterService)(nil)
	_ suture.Service = (*PeriodicService)(nil)
)

type fakeHTTPServer struct {
	listenErr   error
	shutdownErr error
	stop        chan struct{}
	shutdowns   atomic.Int32
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{stop: make(chan struct{})}
}

func (s *fakeHTTPServer) ListenAndServe() error {
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *fakeHTTPServer) Shutdown(context.Context) error {
	if s.shutdowns.Add(1) == 1 {
		close(s.stop)
	}
	return s.shutdownErr
}

func TestHTTPServerService(t *testing.T) {
	t.Run("graceful shutdown returns ctx error", func(t *testing.T) {
		srv := newFakeHTTPServer()
		svc := NewHTTPServerService(srv, time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()
		cancel()

		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
		if srv.shutdowns.Load() != 1 {
			t.Errorf("Shutdown called %d times", srv.shutdowns.Load())
		}
	})

	t.Run("listen failure is returned", func(t *testing.T) {
		srv := newFakeHTTPServer()
		srv.listenErr = errors.New("address in use")
		svc := NewHTTPServerService(srv, 0)

		err := svc.Serve(context.Background())
		if err == nil || !errors.Is(err, srv.listenErr) {
			t.Errorf("Serve() = %v, want wrapped listen error", err)
		}
	})

	t.Run("name and default timeout", func(t *testing.T) {
		svc := NewHTTPServerService(newFakeHTTPServer(), 0)
		if svc.String() != "http-server" {
			t.Errorf("String() = %q", svc.String())
		}
		if svc.shutdownTimeout != 10*time.Second {
			t.Errorf("shutdownTimeout = %v", svc.shutdownTimeout)
		}
	})
}

type fakeHub struct{ runs atomic.Int32 }

func (h *fakeHub) RunWithContext(ctx context.Context) error {
	h.runs.Add(1)
	<-ctx.Done()
	return ctx.Err()
}

func TestWebSocketHubService(t *testing.T) {
	hub := &fakeHub{}
	svc := NewWebSocketHubService(hub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
	if hub.runs.Load() != 1 || svc.String() != "websocket-hub" {
		t.Errorf("runs=%d name=%q", hub.runs.Load(), svc.String())
	}
}

type fakeRouter struct {
	runErr error
	closed atomic.Bool
}

func (r *fakeRouter) Run(ctx context.Context) error {
	if r.runErr != nil {
		return r.runErr
	}
	<-ctx.Done()
	return nil
}

func (r *fakeRouter) Close() error {
	r.closed.Store(true)
	return nil
}

func TestEventRouterService(t *testing.T) {
	t.Run("new router per start", func(t *testing.T) {
		var built []*fakeRouter
		svc := NewEventRouterService(func() (EventRouter, error) {
			r := &fakeRouter{}
			built = append(built, r)
			return r, nil
		})

		for i := 0; i < 2; i++ {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		}
		if len(built) != 2 {
			t.Fatalf("built %d routers, want 2", len(built))
		}
		for _, r := range built {
			if !r.closed.Load() {
				t.Error("router should be closed after Serve returns")
			}
		}
	})

	t.Run("run failure asks for restart", func(t *testing.T) {
		svc := NewEventRouterService(func() (EventRouter, error) {
			return &fakeRouter{runErr: errors.New("subscribe failed")}, nil
		})
		if err := svc.Serve(context.Background()); err == nil || errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want failure", err)
		}
	})

	t.Run("factory failure", func(t *testing.T) {
		svc := NewEventRouterService(func() (EventRouter, error) {
			return nil, errors.New("bus closed")
		})
		if err := svc.Serve(context.Background()); err == nil {
			t.Error("Serve() should fail when the router cannot be built")
		}
	})
}

func TestPeriodicService(t *testing.T) {
	var runs atomic.Int32
	svc := NewPeriodicService("checkpoint", 5*time.Millisecond, func(context.Context) error {
		if runs.Add(1) == 1 {
			return errors.New("first run fails")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
	if runs.Load() < 3 {
		t.Errorf("task ran %d times, want >= 3 (errors must not stop the loop)", runs.Load())
	}
	if svc.String() != "checkpoint" {
		t.Errorf("String() = %q", svc.String())
	}
}
