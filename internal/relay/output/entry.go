// Writes translated messages to one peer
package output

import (
	"context"
	"errors"
	"net"
	"oscrelay/internal/atomics"
	"oscrelay/internal/global"
	"oscrelay/internal/logctx"
	"oscrelay/internal/network"
	"oscrelay/internal/queue/fifo"
	"oscrelay/pkg/osc"
	"runtime/debug"
	"syscall"
)

// Mirror may be nil
func New(namespace []string, peer string, inbox *fifo.Queue[osc.Message], conn *net.UDPConn, mirror Recorder) (new *Instance) {
	ns := append([]string(nil), namespace...)
	new = &Instance{
		Namespace:  append(ns, global.NSSend, peer),
		peer:       peer,
		inbox:      inbox,
		conn:       conn,
		mirror:     mirror,
		maxPayload: network.MaxUDPPayload(conn),
	}
	return
}

// Sends queued messages until ctx is cancelled, then flushes whatever is
// still queued before returning.
func (instance *Instance) Run(ctx context.Context) {
	ctx = logctx.OverwriteCtxTag(ctx, instance.Namespace)

	for {
		msg, ok := instance.inbox.Pop(ctx)
		if !ok {
			break
		}
		instance.deliver(ctx, msg)
	}

	// Shutdown requested, drain without blocking
	var flushed int
	for {
		msg, ok := instance.inbox.TryPop()
		if !ok {
			break
		}
		instance.deliver(ctx, msg)
		flushed++
	}
	if flushed > 0 {
		logctx.LogEvent(ctx, global.VerbosityProgress, global.InfoLog,
			"flushed %d queued messages to %s during shutdown\n", flushed, instance.peer)
	}
}

// Encodes and writes one message. Failures are recorded, never retried.
func (instance *Instance) deliver(ctx context.Context, msg osc.Message) {
	defer func() {
		if fatalError := recover(); fatalError != nil {
			instance.Metrics.Panics.Add(1)
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in output worker thread: %v\n%s", fatalError, stack)
		}
	}()

	payload, err := msg.MarshalBinary()
	if err != nil {
		instance.Metrics.EncodeErrors.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"failed to encode message %s: %v\n", msg.Address, err)
		return
	}

	if len(payload) > instance.maxPayload {
		instance.Metrics.Oversized.Add(1)
		logctx.LogEvent(ctx, global.VerbosityProgress, global.WarnLog,
			"message %s is %d bytes, larger than the %d byte path payload and will be fragmented\n",
			msg.Address, len(payload), instance.maxPayload)
	}

	err = instance.write(payload)
	if err != nil {
		instance.Metrics.SendErrors.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"failed to send message %s to %s: %v\n", msg.Address, instance.peer, err)
		return
	}

	pktLengthB := uint64(len(payload))
	instance.Metrics.SumPacketBytes.Add(pktLengthB)
	atomics.StoreMax(&instance.Metrics.MaxPacketBytes, pktLengthB)
	instance.Metrics.TotalPackets.Add(1)

	logctx.LogEvent(ctx, global.VerbosityFullData, global.InfoLog,
		"sent message (size %d) to %s\n", len(payload), instance.conn.RemoteAddr())

	if instance.mirror != nil {
		instance.mirror.Record(instance.peer, msg)
	}
}

// Writes one datagram on the connected socket. A refused error reported by
// the kernel belongs to an earlier datagram (ICMP port unreachable while the
// peer was down), so the write that surfaced it is reissued once.
func (instance *Instance) write(payload []byte) (err error) {
	_, err = instance.conn.Write(payload)
	if errors.Is(err, syscall.ECONNREFUSED) {
		instance.Metrics.Refused.Add(1)
		_, err = instance.conn.Write(payload)
	}
	return
}
