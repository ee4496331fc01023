package file

import (
	"context"
	"oscrelay/internal/global"
	"oscrelay/internal/logctx"
	"oscrelay/pkg/osc"
	"runtime/debug"
	"time"
)

// Queues a delivered message for the capture file. Never blocks the caller.
func (capture *Capture) Record(peer string, msg osc.Message) {
	if capture == nil {
		return
	}
	capture.queue.Push(Entry{
		Timestamp: time.Now(),
		Peer:      peer,
		Message:   msg,
	})
}

// Writes queued entries until ctx is cancelled, then writes the remainder
func (capture *Capture) Run(ctx context.Context) {
	ctx = logctx.OverwriteCtxTag(ctx, capture.Namespace)

	for {
		entry, ok := capture.queue.Pop(ctx)
		if !ok {
			break
		}
		capture.write(ctx, entry)

		// Batch whatever else is already waiting
		if capture.queue.Len() == 0 {
			capture.flush(ctx)
		}
	}

	for {
		entry, ok := capture.queue.TryPop()
		if !ok {
			break
		}
		capture.write(ctx, entry)
	}
	capture.flush(ctx)
}

func (capture *Capture) write(ctx context.Context, entry Entry) {
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in capture worker thread: %v\n%s", fatalError, stack)
		}
	}()

	capture.batchBuffer = append(capture.batchBuffer, formatAsText(entry))
	if len(capture.batchBuffer) >= global.CaptureBatchSize {
		capture.flush(ctx)
	}
}

func (capture *Capture) flush(ctx context.Context) {
	flushed, err := capture.FlushBuffer()
	capture.Metrics.LinesWritten.Add(uint64(flushed))
	if err != nil {
		capture.Metrics.WriteErrors.Add(1)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"failed writing to capture file '%s': %v\n", capture.filePath, err)
	}
}

// Flushes line buffer to the file. Lines that could not be written are discarded.
func (capture *Capture) FlushBuffer() (flushedCnt int, err error) {
	if len(capture.batchBuffer) == 0 {
		return
	}

	for _, line := range capture.batchBuffer {
		data := []byte(line)
		for len(data) > 0 {
			var n int
			n, err = capture.sink.Write(data)
			if err != nil {
				break
			}
			data = data[n:] // remove the bytes that were successfully written
		}
		if err != nil {
			break
		}
		flushedCnt++
	}

	capture.batchBuffer = capture.batchBuffer[:0]
	return
}

// Timestamp, destination peer and message on one line
func formatAsText(entry Entry) (line string) {
	line = entry.Timestamp.Format(time.RFC3339Nano) + " " + entry.Peer + " " + entry.Message.String() + "\n"
	return
}
