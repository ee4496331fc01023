package lifecycle

import (
	"context"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

type fakeDaemon struct {
	reloads   atomic.Int32
	shutdowns atomic.Int32
}

func (daemon *fakeDaemon) Reload(context.Context) error {
	daemon.reloads.Add(1)
	return nil
}

func (daemon *fakeDaemon) Shutdown() {
	daemon.shutdowns.Add(1)
}

func TestSignalHandler_ReloadThenTerminate(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	daemon := &fakeDaemon{}

	done := make(chan struct{})
	go func() {
		SignalHandler(context.Background(), daemon)
		close(done)
	}()
	// Let the handler register before signalling ourselves
	time.Sleep(50 * time.Millisecond)

	syscall.Kill(syscall.Getpid(), syscall.SIGHUP)
	deadline := time.Now().Add(2 * time.Second)
	for daemon.reloads.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if daemon.reloads.Load() != 1 {
		t.Fatalf("expected one reload, got %d", daemon.reloads.Load())
	}

	syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("handler did not return after SIGTERM")
	}
	if daemon.shutdowns.Load() != 1 {
		t.Fatalf("expected one shutdown, got %d", daemon.shutdowns.Load())
	}
}

func TestSignalHandler_ContextCancel(t *testing.T) {
	daemon := &fakeDaemon{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		SignalHandler(ctx, daemon)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("handler did not return after cancel")
	}
	if daemon.shutdowns.Load() != 0 {
		t.Fatalf("cancel must not trigger shutdown")
	}
}
