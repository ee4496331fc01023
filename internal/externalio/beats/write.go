package beats

import (
	"context"
	"os"
	"oscrelay/internal/global"
	"oscrelay/internal/logctx"
	"oscrelay/pkg/osc"
	"runtime/debug"
	"time"
)

// Queues a delivered message for mirroring. Never blocks the caller.
func (mirror *Mirror) Record(peer string, msg osc.Message) {
	if mirror == nil {
		return
	}
	mirror.queue.Push(Record{
		Timestamp: time.Now(),
		Peer:      peer,
		Message:   msg,
	})
}

// Ships queued records in batches until ctx is cancelled, then flushes the remainder
func (mirror *Mirror) Run(ctx context.Context) {
	ctx = logctx.OverwriteCtxTag(ctx, mirror.Namespace)

	for {
		first, ok := mirror.queue.Pop(ctx)
		if !ok {
			break
		}
		mirror.sendBatch(ctx, first)
	}

	for {
		first, ok := mirror.queue.TryPop()
		if !ok {
			return
		}
		mirror.sendBatch(ctx, first)
	}
}

// Sends first plus whatever else is already queued, up to the batch size
func (mirror *Mirror) sendBatch(ctx context.Context, first Record) {
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in mirror worker thread: %v\n%s", fatalError, stack)
		}
	}()

	events := []interface{}{event(first)}
	for len(events) < global.MirrorBatchSize {
		record, ok := mirror.queue.TryPop()
		if !ok {
			break
		}
		events = append(events, event(record))
	}

	sent, err := mirror.sink.Send(events)
	mirror.Metrics.Sent.Add(uint64(sent))
	if err != nil {
		mirror.Metrics.SendErrors.Add(1)
		mirror.Metrics.Dropped.Add(uint64(len(events) - sent))
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"failed sending %d events to beats server %s: %v\n", len(events)-sent, mirror.endpoint, err)
	}
}

// Builds the beats event document for one record
func event(record Record) (fields map[string]interface{}) {
	arguments := make([]interface{}, 0, len(record.Message.Arguments))
	for _, arg := range record.Message.Arguments {
		arguments = append(arguments, argumentField(arg))
	}

	fields = map[string]interface{}{
		// Minimum required fields
		"@timestamp": record.Timestamp,
		"message":    record.Message.String(),

		"osc": map[string]interface{}{
			"address":   record.Message.Address,
			"arguments": arguments,
		},
		"destination": map[string]interface{}{
			"name": record.Peer,
		},
		"agent": map[string]interface{}{
			"program": global.ProgBaseName,
			"version": global.ProgVersion,
			"pid":     os.Getpid(),
		},
	}
	return
}

// JSON friendly form of an argument
func argumentField(arg any) (field interface{}) {
	switch value := arg.(type) {
	case []byte:
		field = map[string]interface{}{"blob": len(value)}
	case osc.Symbol:
		field = string(value)
	case osc.Impulse:
		field = "impulse"
	case osc.MIDI:
		field = value[:]
	default:
		field = value
	}
	return
}
