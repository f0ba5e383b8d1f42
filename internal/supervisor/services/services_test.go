// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/atelier/internal/metrics"
)

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*SessionSweeperService)(nil)
)

type fakeServer struct {
	listenErr   error
	shutdownErr error
	started     chan struct{}
	stop        chan struct{}
	stopOnce    sync.Once
	shutdowns   atomic.Int32
}

func newFakeServer() *fakeServer {
	return &fakeServer{started: make(chan struct{}, 1), stop: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	f.started <- struct{}{}
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(ctx context.Context) error {
	f.shutdowns.Add(1)
	f.stopOnce.Do(func() { close(f.stop) })
	return f.shutdownErr
}

func nopLogger() zerolog.Logger { return zerolog.New(io.Discard) }

func TestHTTPServerServiceGracefulShutdown(t *testing.T) {
	srv := newFakeServer()
	svc := NewHTTPServerService(srv, time.Second, nopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	<-srv.started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if srv.shutdowns.Load() != 1 {
		t.Errorf("Shutdown called %d times", srv.shutdowns.Load())
	}
}

func TestHTTPServerServiceListenFailure(t *testing.T) {
	srv := newFakeServer()
	srv.listenErr = errors.New("address in use")
	svc := NewHTTPServerService(srv, time.Second, nopLogger())

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, srv.listenErr) {
		t.Fatalf("Serve() = %v", err)
	}
}

func TestHTTPServerServiceShutdownFailure(t *testing.T) {
	srv := newFakeServer()
	srv.shutdownErr = errors.New("stuck connections")
	svc := NewHTTPServerService(srv, time.Second, nopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	<-srv.started
	cancel()

	if err := <-done; !errors.Is(err, srv.shutdownErr) {
		t.Errorf("Serve() = %v, want shutdown error", err)
	}
}

func TestHTTPServerServiceDefaults(t *testing.T) {
	svc := NewHTTPServerService(newFakeServer(), 0, nopLogger())
	if svc.shutdownTimeout != 10*time.Second || svc.String() != "http-server" {
		t.Errorf("svc = %+v", svc)
	}
}

type fakeSweeper struct {
	mu    sync.Mutex
	calls int
	n     int
	err   error
	swept chan struct{}
}

func (f *fakeSweeper) Sweep(ctx context.Context) (int, error) {
	f.mu.Lock()
	f.calls++
	n, err := f.n, f.err
	f.mu.Unlock()
	select {
	case f.swept <- struct{}{}:
	default:
	}
	return n, err
}

func TestSessionSweeperRunsOnInterval(t *testing.T) {
	store := &fakeSweeper{n: 3, swept: make(chan struct{}, 1)}
	svc := NewSessionSweeperService(store, 10*time.Millisecond, nopLogger())

	before := testutil.ToFloat64(metrics.SessionsSwept)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	select {
	case <-store.swept:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper never ran")
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
	if got := testutil.ToFloat64(metrics.SessionsSwept) - before; got < 3 {
		t.Errorf("sessions swept delta = %v, want >= 3", got)
	}
}

func TestSessionSweeperSurvivesErrors(t *testing.T) {
	store := &fakeSweeper{err: errors.New("disk full"), swept: make(chan struct{}, 1)}
	svc := NewSessionSweeperService(store, 5*time.Millisecond, nopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-store.swept:
		case <-time.After(2 * time.Second):
			t.Fatal("sweeper stopped after an error")
		}
	}
	cancel()
	<-done
}

func TestSessionSweeperDefaultInterval(t *testing.T) {
	svc := NewSessionSweeperService(&fakeSweeper{}, 0, nopLogger())
	if svc.interval != 10*time.Minute || svc.String() != "session-sweeper" {
		t.Errorf("svc = %+v", svc)
	}
}
