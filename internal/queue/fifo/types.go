package fifo

import (
	"sync"
	"sync/atomic"
)

// Unbounded FIFO. Items are held in a slice window [head:] which is compacted
// once the consumed prefix dominates the backing array.
type Queue[T any] struct {
	Namespace []string
	mu        sync.Mutex
	items     []T
	head      int
	notEmpty  chan struct{}   // capacity 1, wakes a blocked consumer
	sizeOf    func(T) int     // byte estimate per item for metrics
	Metrics   *MetricStorage
}

type MetricStorage struct {
	Depth    atomic.Uint64 // Current items in queue
	Bytes    atomic.Uint64 // Current byte size in queue (estimated)
	MaxDepth atomic.Uint64 // Highest depth seen in the interval

	PushTotal   atomic.Uint64 // every Push call
	PopTotal    atomic.Uint64 // every successful pop
	PopWaits    atomic.Uint64 // times a consumer had to block for data
	PopWakeups  atomic.Uint64 // times a blocked consumer was signaled
	PopCanceled atomic.Uint64 // blocking pops ended by context
}
