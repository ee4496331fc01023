// Duplex OSC relay between two peers. Each direction rewrites the address
// namespace and keyword vocabulary before forwarding.
package relay

import (
	"context"
	"fmt"
	"net/http"
	"oscrelay/internal/atomics"
	"oscrelay/internal/externalio/beats"
	"oscrelay/internal/externalio/file"
	"oscrelay/internal/externalio/server"
	"oscrelay/internal/global"
	"oscrelay/internal/logctx"
	"oscrelay/internal/network"
	"oscrelay/internal/queue/fifo"
	"oscrelay/internal/relay/listener"
	relaymetrics "oscrelay/internal/relay/metrics"
	"oscrelay/internal/relay/output"
	"oscrelay/internal/translate"
	"oscrelay/pkg/osc"
	"time"
)

// Create new relay daemon instance. Fills defaults and validates the config.
func NewDaemon(cfg Config) (new *Daemon, err error) {
	cfg.setDefaults()
	err = cfg.validate()
	if err != nil {
		err = fmt.Errorf("invalid relay configuration: %w", err)
		return
	}

	toB, err := translate.New(cfg.PeerA.Name, cfg.PeerA.Prefix, cfg.PeerB.Name, cfg.PeerB.Prefix, cfg.Keywords)
	if err != nil {
		err = fmt.Errorf("invalid keyword table: %w", err)
		return
	}

	ns := []string{global.NSRelay, global.NSQueue}
	sizeOf := func(msg osc.Message) int { return msg.Size() }

	new = &Daemon{
		cfg:  cfg,
		done: make(chan struct{}),
		toB:  toB,
		toA:  toB.Reverse(),
		ToA:  fifo.New(append(append([]string(nil), ns...), cfg.PeerA.Name), sizeOf),
		ToB:  fifo.New(append(append([]string(nil), ns...), cfg.PeerB.Name), sizeOf),
		ctx:  context.Background(),
	}
	new.setState(StateCreated)
	return
}

// Binds both listen sockets and opens both send sockets, then starts the
// relay workers in the background. Any socket failure is returned and leaves
// the daemon unstarted. ctx supplies the logger; it does not stop the relay.
func (daemon *Daemon) Serve(ctx context.Context) (err error) {
	daemon.mu.Lock()
	defer daemon.mu.Unlock()

	switch daemon.State() {
	case StateServing, StateStopping:
		err = ErrAlreadyServing
		return
	case StateStopped:
		err = ErrStopped
		return
	}

	// Workers get their own cancellation, only the logger is carried over
	daemon.ctx = logctx.Inherit(context.Background(), ctx)
	daemon.ctx = logctx.AppendCtxTag(daemon.ctx, global.NSRelay)

	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Starting...\n")

	err = daemon.openSockets(ctx)
	if err != nil {
		daemon.closeSockets()
		return
	}

	daemon.capture, err = file.NewCapture([]string{global.NSRelay}, daemon.cfg.CaptureFile)
	if err != nil {
		daemon.closeSockets()
		return
	}
	daemon.mirror, err = beats.NewMirror([]string{global.NSRelay}, daemon.cfg.MirrorEndpoint)
	if err != nil {
		daemon.capture.Shutdown()
		daemon.capture = nil
		daemon.closeSockets()
		return
	}

	var recorder output.Recorder
	var audit recorders
	if daemon.capture != nil {
		audit = append(audit, daemon.capture)
	}
	if daemon.mirror != nil {
		audit = append(audit, daemon.mirror)
	}
	if len(audit) > 0 {
		recorder = audit
	}

	// Raised only for the life of this run, Stop puts the old level back
	daemon.raisedLevel = false
	if daemon.cfg.Verbose && !logctx.Enabled(daemon.ctx, global.VerbosityData) {
		daemon.prevLevel = logctx.GetLogLevel(daemon.ctx)
		daemon.raisedLevel = true
		logctx.SetLogLevel(daemon.ctx, global.VerbosityData)
	}

	peerA := daemon.cfg.PeerA
	peerB := daemon.cfg.PeerB
	ns := []string{global.NSRelay}

	daemon.Listeners = [2]*listener.Instance{
		listener.New(ns, daemon.listenA, daemon.toB, daemon.ToB),
		listener.New(ns, daemon.listenB, daemon.toA, daemon.ToA),
	}
	daemon.Senders = [2]*output.Instance{
		output.New(ns, peerA.Name, daemon.ToA, daemon.sendA, recorder),
		output.New(ns, peerB.Name, daemon.ToB, daemon.sendB, recorder),
	}

	var listenCtx, sendCtx, auxCtx context.Context
	listenCtx, daemon.listenCancel = context.WithCancel(daemon.ctx)
	sendCtx, daemon.sendCancel = context.WithCancel(daemon.ctx)
	auxCtx, daemon.auxCancel = context.WithCancel(daemon.ctx)

	// Senders first so nothing queued by a listener waits on a missing consumer
	for _, sender := range daemon.Senders {
		daemon.sendWG.Add(1)
		go func() {
			defer daemon.sendWG.Done()
			sender.Run(sendCtx)
		}()
	}
	for _, instance := range daemon.Listeners {
		daemon.listenWG.Add(1)
		go func() {
			defer daemon.listenWG.Done()
			instance.Run(listenCtx)
		}()
	}

	daemon.startAncillaries(auxCtx)

	daemon.setState(StateServing)
	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog,
		"Relaying %s (%s:%d -> %s:%d) <-> %s (%s:%d -> %s:%d)\n",
		peerA.Name, peerA.ListenIP, network.LocalPort(daemon.listenA), peerB.SendIP, peerB.SendPort,
		peerB.Name, peerB.ListenIP, network.LocalPort(daemon.listenB), peerA.SendIP, peerA.SendPort)
	return
}

// Stops the relay. Every message received before the listeners closed is
// delivered before Stop returns. Safe to call any number of times and from
// multiple goroutines; later callers block until the first one completes.
func (daemon *Daemon) Stop() {
	daemon.mu.Lock()
	defer daemon.mu.Unlock()

	switch daemon.State() {
	case StateStopped:
		return
	case StateCreated:
		daemon.setState(StateStopped)
		close(daemon.done)
		return
	}

	daemon.setState(StateStopping)
	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Relay shutdown started...\n")

	// Stop intake. Close errors are irrelevant at this point.
	daemon.listenCancel()
	_ = daemon.listenA.Close()
	_ = daemon.listenB.Close()
	daemon.listenWG.Wait()

	// Shutdown signal: senders flush their queues then exit
	daemon.sendCancel()
	for _, queue := range []*fifo.Queue[osc.Message]{daemon.ToA, daemon.ToB} {
		drained, last := atomics.WaitUntilZero(&queue.Metrics.Depth, global.DrainNoticeTimeout)
		if !drained {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"still flushing %d queued messages (queue %v)\n", last, queue.Namespace)
		}
	}
	daemon.sendWG.Wait()
	_ = daemon.sendA.Close()
	_ = daemon.sendB.Close()

	daemon.stopAncillaries()

	daemon.setState(StateStopped)
	close(daemon.done)
	logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.InfoLog, "Relay shutdown completed successfully\n")

	if daemon.raisedLevel {
		logctx.SetLogLevel(daemon.ctx, daemon.prevLevel)
		daemon.raisedLevel = false
	}
}

// Stop in io.Closer form for scoped use
func (daemon *Daemon) Close() (err error) {
	daemon.Stop()
	return
}

// Ports actually bound for each peer's listener
func (daemon *Daemon) ListenPorts() (portA int, portB int) {
	portA = network.LocalPort(daemon.listenA)
	portB = network.LocalPort(daemon.listenB)
	return
}

func (daemon *Daemon) openSockets(ctx context.Context) (err error) {
	peerA := daemon.cfg.PeerA
	peerB := daemon.cfg.PeerB

	daemon.listenA, err = network.ListenUDP(ctx, peerA.ListenIP, peerA.ListenPort)
	if err != nil {
		err = fmt.Errorf("failed to bind listener for %s: %w", peerA.Name, err)
		return
	}
	daemon.listenB, err = network.ListenUDP(ctx, peerB.ListenIP, peerB.ListenPort)
	if err != nil {
		err = fmt.Errorf("failed to bind listener for %s: %w", peerB.Name, err)
		return
	}
	daemon.sendA, err = network.DialUDP(peerA.SendIP, peerA.SendPort)
	if err != nil {
		err = fmt.Errorf("failed to open sender for %s: %w", peerA.Name, err)
		return
	}
	daemon.sendB, err = network.DialUDP(peerB.SendIP, peerB.SendPort)
	if err != nil {
		err = fmt.Errorf("failed to open sender for %s: %w", peerB.Name, err)
		return
	}
	return
}

// Releases whatever openSockets managed to open
func (daemon *Daemon) closeSockets() {
	if daemon.listenA != nil {
		_ = daemon.listenA.Close()
		daemon.listenA = nil
	}
	if daemon.listenB != nil {
		_ = daemon.listenB.Close()
		daemon.listenB = nil
	}
	if daemon.sendA != nil {
		_ = daemon.sendA.Close()
		daemon.sendA = nil
	}
	if daemon.sendB != nil {
		_ = daemon.sendB.Close()
		daemon.sendB = nil
	}
}

// Metric gatherer, metric query server and audit outputs
func (daemon *Daemon) startAncillaries(ctx context.Context) {
	sources := []relaymetrics.Collector{
		daemon.ToA, daemon.ToB,
		daemon.Listeners[0], daemon.Listeners[1],
		daemon.Senders[0], daemon.Senders[1],
	}

	if daemon.capture != nil {
		sources = append(sources, daemon.capture)
		capture := daemon.capture
		daemon.auxWG.Add(1)
		go func() {
			defer daemon.auxWG.Done()
			capture.Run(ctx)
		}()
	}
	if daemon.mirror != nil {
		sources = append(sources, daemon.mirror)
		mirror := daemon.mirror
		daemon.auxWG.Add(1)
		go func() {
			defer daemon.auxWG.Done()
			mirror.Run(ctx)
		}()
	}

	daemon.metricsCollector = relaymetrics.New(sources,
		daemon.cfg.MetricCollectionInterval,
		daemon.cfg.MetricMaxAge)
	collector := daemon.metricsCollector
	daemon.auxWG.Add(1)
	go func() {
		defer daemon.auxWG.Done()
		collector.Run(ctx)
	}()

	if daemon.cfg.MetricQueryServerEnabled {
		serverCtx := logctx.AppendCtxTag(ctx, global.NSMetric)
		serverCtx = logctx.AppendCtxTag(serverCtx, global.NSMetricSrv)

		daemon.MetricServer = server.SetupListener(serverCtx,
			daemon.cfg.MetricQueryServerPort,
			daemon.metricsCollector.Registry.Search,
			daemon.metricsCollector.Registry.Discover,
			daemon.metricsCollector.Registry.Aggregate)
		metricServer := daemon.MetricServer
		daemon.auxWG.Add(1)
		go func() {
			defer daemon.auxWG.Done()
			server.Start(serverCtx, metricServer)
		}()
	}
}

func (daemon *Daemon) stopAncillaries() {
	if daemon.MetricServer != nil {
		shutdownCtx, cancel := context.WithTimeout(daemon.ctx, global.AuxShutdownTimeout)
		err := daemon.MetricServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil && err != http.ErrServerClosed {
			logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
				"metric HTTP server did not shutdown gracefully: %v\n", err)
		}
	}

	// Audit outputs flush their own queues on cancel
	daemon.auxCancel()

	done := make(chan struct{})
	go func() {
		daemon.auxWG.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(global.AuxShutdownTimeout):
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
			"ancillary workers did not stop within %v\n", global.AuxShutdownTimeout)
	}

	err := daemon.mirror.Shutdown()
	if err != nil {
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
			"audit mirror connection did not close cleanly: %v\n", err)
	}
	err = daemon.capture.Shutdown()
	if err != nil {
		logctx.LogEvent(daemon.ctx, global.VerbosityStandard, global.WarnLog,
			"capture file did not close cleanly: %v\n", err)
	}
}
