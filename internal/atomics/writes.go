// Helper functions that deal with atomic variables and their values
package atomics

import (
	"runtime"
	"sync/atomic"
)

// Saturating subtract on the atomic source (never wraps below zero).
// Gives up after maxRetries failed compare-and-swaps.
func Subtract(source *atomic.Uint64, value uint64, maxRetries int) (success bool) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		current := source.Load()
		if current == 0 {
			success = true
			return
		}

		newValue := uint64(0)
		if value < current {
			newValue = current - value
		}

		if source.CompareAndSwap(current, newValue) {
			success = true
			return
		}
		runtime.Gosched()
	}
	return
}

// Raises the atomic to candidate if candidate is larger
func StoreMax(target *atomic.Uint64, candidate uint64) {
	for {
		current := target.Load()
		if candidate <= current {
			return
		}
		if target.CompareAndSwap(current, candidate) {
			return
		}
	}
}
