// Unbounded multi-producer FIFO queue with blocking-with-wakeup consumers
package fifo

import (
	"context"
	"oscrelay/internal/atomics"
	"oscrelay/internal/global"
)

// Minimum consumed prefix before the backing array is compacted
const compactThreshold = 64

// Creates a new queue. sizeOf may be nil when byte accounting is not wanted.
func New[T any](namespace []string, sizeOf func(T) int) (new *Queue[T]) {
	new = &Queue[T]{
		Namespace: append(append([]string(nil), namespace...), global.NSQueue),
		items:     make([]T, 0, 16),
		notEmpty:  make(chan struct{}, 1),
		sizeOf:    sizeOf,
		Metrics:   &MetricStorage{},
	}
	return
}

// Appends an element. Never blocks and never fails. Returns depth after the push.
func (queue *Queue[T]) Push(value T) (depth int) {
	queue.mu.Lock()
	queue.items = append(queue.items, value)
	depth = len(queue.items) - queue.head
	queue.Metrics.Depth.Store(uint64(depth)) // kept exact for shutdown drain checks
	if queue.sizeOf != nil {
		queue.Metrics.Bytes.Add(uint64(queue.sizeOf(value)))
	}
	queue.mu.Unlock()

	queue.Metrics.PushTotal.Add(1)
	atomics.StoreMax(&queue.Metrics.MaxDepth, uint64(depth))

	queue.signal()
	return
}

// Removes the oldest element without blocking. Returns false if empty.
func (queue *Queue[T]) TryPop() (out T, success bool) {
	queue.mu.Lock()
	if queue.head == len(queue.items) {
		queue.mu.Unlock()
		return
	}

	var zero T
	out = queue.items[queue.head]
	queue.items[queue.head] = zero // release reference
	queue.head++
	remaining := len(queue.items) - queue.head

	if remaining == 0 {
		queue.items = queue.items[:0]
		queue.head = 0
	} else if queue.head >= compactThreshold && queue.head*2 >= len(queue.items) {
		queue.items = append(queue.items[:0:0], queue.items[queue.head:]...)
		queue.head = 0
	}
	queue.Metrics.Depth.Store(uint64(remaining))
	if queue.sizeOf != nil {
		atomics.Subtract(&queue.Metrics.Bytes, uint64(queue.sizeOf(out)), 4)
	}
	queue.mu.Unlock()

	queue.Metrics.PopTotal.Add(1)

	// Pass the wakeup on for any other waiting consumer
	if remaining > 0 {
		queue.signal()
	}

	success = true
	return
}

// Blocks until an element is available or the context is done.
// Returns false only when the context ended while the queue was empty.
func (queue *Queue[T]) Pop(ctx context.Context) (out T, success bool) {
	for {
		out, success = queue.TryPop()
		if success {
			return
		}

		queue.Metrics.PopWaits.Add(1)
		select {
		case <-ctx.Done():
			// Last look so an element pushed alongside cancellation is not missed
			out, success = queue.TryPop()
			if !success {
				queue.Metrics.PopCanceled.Add(1)
			}
			return
		case <-queue.notEmpty:
			queue.Metrics.PopWakeups.Add(1)
		}
	}
}

// Current number of queued elements
func (queue *Queue[T]) Len() (depth int) {
	queue.mu.Lock()
	depth = len(queue.items) - queue.head
	queue.mu.Unlock()
	return
}

// notify blocked consumers, non-blocking
func (queue *Queue[T]) signal() {
	select {
	case queue.notEmpty <- struct{}{}:
	default:
	}
}
