package atomics

import (
	"sync/atomic"
	"time"
)

// Polls until the atomic value reads zero or the timeout passes.
// Backs off from 5ms up to 250ms between reads.
func WaitUntilZero(value *atomic.Uint64, timeout time.Duration) (reachedZero bool, lastValue uint64) {
	const maxBackoff = 250 * time.Millisecond
	backoff := 5 * time.Millisecond
	deadline := time.Now().Add(timeout)

	for {
		lastValue = value.Load()
		if lastValue == 0 {
			reachedZero = true
			return
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return
		}
		time.Sleep(min(backoff, remaining))
		backoff = min(backoff*2, maxBackoff)
	}
}
