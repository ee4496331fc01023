package cli

import (
	"context"
	"fmt"
	"oscrelay/internal/global"
	"oscrelay/internal/logctx"
	"oscrelay/internal/relay"
	"sync"
)

// Owns the running relay across reloads
type supervisor struct {
	mu     sync.Mutex
	load   func() (relay.Config, error)
	daemon *relay.Daemon
	cfg    relay.Config // config of the running daemon
	done   chan struct{}
	once   sync.Once
}

func newSupervisor(load func() (relay.Config, error)) (sup *supervisor) {
	sup = &supervisor{
		load: load,
		done: make(chan struct{}),
	}
	return
}

func (sup *supervisor) start(ctx context.Context) (err error) {
	sup.mu.Lock()
	defer sup.mu.Unlock()

	cfg, err := sup.load()
	if err != nil {
		return
	}
	err = sup.serve(ctx, cfg)
	return
}

// Stops the running relay, re-reads its config and starts again.
// If the new config cannot be served the previous one is restored.
func (sup *supervisor) Reload(ctx context.Context) (err error) {
	sup.mu.Lock()
	defer sup.mu.Unlock()

	select {
	case <-sup.done:
		err = fmt.Errorf("relay is shut down")
		return
	default:
	}

	newCfg, err := sup.load()
	if err != nil {
		err = fmt.Errorf("keeping current relay, new config unusable: %w", err)
		return
	}

	// Ports must be released before the new relay can bind them
	sup.daemon.Stop()

	err = sup.serve(ctx, newCfg)
	if err == nil {
		return
	}
	logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
		"New relay failed to start, restoring previous configuration: %v\n", err)

	restoreErr := sup.serve(ctx, sup.cfg)
	if restoreErr != nil {
		err = fmt.Errorf("%w (restore also failed: %v)", err, restoreErr)
		sup.once.Do(func() { close(sup.done) })
	}
	return
}

// Stops the relay for good
func (sup *supervisor) Shutdown() {
	sup.mu.Lock()
	defer sup.mu.Unlock()

	if sup.daemon != nil {
		sup.daemon.Stop()
	}
	sup.once.Do(func() { close(sup.done) })
}

// Closed once the relay is shut down
func (sup *supervisor) Done() (done <-chan struct{}) {
	done = sup.done
	return
}

func (sup *supervisor) serve(ctx context.Context, cfg relay.Config) (err error) {
	daemon, err := relay.NewDaemon(cfg)
	if err != nil {
		return
	}
	err = daemon.Serve(ctx)
	if err != nil {
		return
	}
	sup.daemon = daemon
	sup.cfg = cfg
	return
}
