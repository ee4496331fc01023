// Reads OSC datagrams from one peer, translates them and queues them for the other peer
package listener

import (
	"context"
	"errors"
	"net"
	"oscrelay/internal/atomics"
	"oscrelay/internal/global"
	"oscrelay/internal/logctx"
	"oscrelay/internal/queue/fifo"
	"oscrelay/internal/translate"
	"oscrelay/pkg/osc"
	"runtime/debug"
	"time"
)

func New(namespace []string, conn *net.UDPConn, rule translate.Rule, outbox *fifo.Queue[osc.Message]) (new *Instance) {
	ns := append([]string(nil), namespace...)
	new = &Instance{
		Namespace: append(ns, global.NSListen, rule.From),
		conn:      conn,
		rule:      rule,
		translate: rule.Apply,
		Outbox:    outbox,
	}
	return
}

// Blocks reading datagrams until the socket is closed or ctx is cancelled
func (instance *Instance) Run(ctx context.Context) {
	ctx = logctx.OverwriteCtxTag(ctx, instance.Namespace)
	buffer := make([]byte, global.MaxDatagramSize)

	var failures int
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		stop, readErr := instance.receive(ctx, buffer)
		if stop {
			return
		}
		if readErr == nil {
			if failures > 0 {
				logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
					"socket reads recovered after %d failures\n", failures)
			}
			failures = 0
			continue
		}

		failures++
		instance.Metrics.ReadErrors.Add(1)
		if failures == 1 || failures%global.ReadErrorLogEvery == 0 {
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"failed reading data from socket (%d consecutive failures): %v\n", failures, readErr)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay(failures)):
		}
	}
}

// Wait before the next read after n consecutive failures
func retryDelay(failures int) (delay time.Duration) {
	delay = global.ReadRetryMinDelay
	for i := 1; i < failures && delay < global.ReadRetryMaxDelay; i++ {
		delay *= 2
	}
	if delay > global.ReadRetryMaxDelay {
		delay = global.ReadRetryMaxDelay
	}
	return
}

// Handles exactly one datagram. Panics are recorded and listening continues.
// Socket read failures are returned to the caller, everything else is handled here.
func (instance *Instance) receive(ctx context.Context, buffer []byte) (stop bool, readErr error) {
	defer func() {
		if fatalError := recover(); fatalError != nil {
			instance.Metrics.Panics.Add(1)
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in listener worker thread: %v\n%s", fatalError, stack)
		}
	}()

	// Blocking until data or connection is closed by the daemon
	endIndex, remoteAddr, err := instance.conn.ReadFromUDP(buffer)
	start := time.Now()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
			stop = true
			return
		}
		readErr = err
		return
	}

	messages, err := osc.Parse(buffer[:endIndex])
	if err != nil {
		instance.Metrics.InvalidPackets.Add(1)
		instance.Metrics.BusyNs.Add(uint64(time.Since(start)))
		logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
			"dropping invalid datagram (%d bytes) from %s: %v\n", endIndex, remoteAddr.String(), err)
		return
	}
	instance.Metrics.ValidPackets.Add(1)

	verbose := logctx.Enabled(ctx, global.VerbosityData)
	for _, received := range messages {
		outbound := instance.translate(received)

		if verbose {
			logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
				"[%s ->] %s\n", instance.rule.From, received.String())
			logctx.LogEvent(ctx, global.VerbosityData, global.InfoLog,
				"[-> %s] %s\n", instance.rule.To, outbound.String())
		}

		depth := instance.Outbox.Push(outbound)
		instance.Metrics.Messages.Add(1)

		if fifo.ShouldCheckMemory(depth) {
			queuedBytes, freeBytes, overBudget := instance.Outbox.MemoryUsage()
			if overBudget {
				logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog,
					"queue toward %s holds %d messages (%d bytes) against %d bytes free memory\n",
					instance.rule.To, depth, queuedBytes, freeBytes)
			}
		}
	}

	durNs := uint64(time.Since(start))
	instance.Metrics.SumNs.Add(durNs)
	atomics.StoreMax(&instance.Metrics.MaxNs, durNs)
	instance.Metrics.BusyNs.Add(durNs)
	return
}
