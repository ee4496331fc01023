package atomics

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSubtract(t *testing.T) {
	tests := []struct {
		name        string
		initial     uint64
		subtract    uint64
		maxRetries  int
		wantSuccess bool
		wantFinal   uint64
	}{
		{"already zero", 0, 5, 1, true, 0},
		{"simple subtraction", 10, 3, 3, true, 7},
		{"subtract more than available", 5, 10, 3, true, 0},
		{"no retries allowed", 5, 1, 0, false, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a atomic.Uint64
			a.Store(tt.initial)

			ok := Subtract(&a, tt.subtract, tt.maxRetries)
			if ok != tt.wantSuccess {
				t.Fatalf("expected success=%v, got %v", tt.wantSuccess, ok)
			}
			if final := a.Load(); final != tt.wantFinal {
				t.Fatalf("expected final=%d, got %d", tt.wantFinal, final)
			}
		})
	}
}

func TestStoreMax(t *testing.T) {
	var a atomic.Uint64
	var wg sync.WaitGroup
	for i := uint64(1); i <= 100; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			StoreMax(&a, v)
		}(i)
	}
	wg.Wait()

	if got := a.Load(); got != 100 {
		t.Fatalf("expected max 100, got %d", got)
	}

	StoreMax(&a, 3)
	if got := a.Load(); got != 100 {
		t.Fatalf("smaller candidate lowered value to %d", got)
	}
}
