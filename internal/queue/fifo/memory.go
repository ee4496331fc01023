package fifo

import (
	"oscrelay/internal/global"

	"github.com/pbnjay/memory"
)

// Minimum depth before memory checks are considered
const memoryCheckMinDepth = 1024

// Reports whether a push that produced this depth should trigger a memory check.
// True on every power of two from memoryCheckMinDepth upward.
func ShouldCheckMemory(depth int) (check bool) {
	check = depth >= memoryCheckMinDepth && depth&(depth-1) == 0
	return
}

// Compares queued bytes against free system memory.
// overBudget is set when queued bytes exceed the configured share of free memory.
func (queue *Queue[T]) MemoryUsage() (queuedBytes uint64, freeBytes uint64, overBudget bool) {
	queuedBytes = queue.Metrics.Bytes.Load()
	freeBytes = memory.FreeMemory()
	if freeBytes == 0 {
		// Platform does not report free memory
		return
	}

	percent := float64(queuedBytes) / float64(freeBytes) * 100
	overBudget = percent >= global.QueueMemoryWarnPercent
	return
}
