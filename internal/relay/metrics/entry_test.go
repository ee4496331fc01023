package metrics

import (
	"context"
	"oscrelay/internal/global"
	"oscrelay/internal/metrics"
	"testing"
	"time"
)

type fixedSource struct {
	name  string
	calls int
}

func (source *fixedSource) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	source.calls++
	collection = []metrics.Metric{{
		Name:      source.name,
		Namespace: []string{global.NSTest},
		Value:     metrics.MetricValue{Raw: uint64(source.calls), Unit: "count", Interval: interval},
		Type:      metrics.Counter,
		Timestamp: time.Now(),
	}}
	return
}

type panicSource struct{}

func (panicSource) CollectMetrics(time.Duration) []metrics.Metric { panic("boom") }

func TestCollect_AllSources(t *testing.T) {
	first := &fixedSource{name: "first"}
	second := &fixedSource{name: "second"}
	gatherer := New([]Collector{first, second}, time.Second, time.Hour)

	now := time.Now()
	gatherer.Collect(context.Background(), gatherer.Registry.NewTimeSlice(now, time.Second))

	results := gatherer.Registry.Search("", []string{global.NSTest}, now.Add(-time.Minute), now.Add(time.Minute))
	if len(results) != 2 {
		t.Fatalf("expected 2 metrics, got %d", len(results))
	}
	if first.calls != 1 || second.calls != 1 {
		t.Fatalf("expected each source read once, got %d and %d", first.calls, second.calls)
	}
}

func TestCollect_RecoversPanic(t *testing.T) {
	gatherer := New([]Collector{panicSource{}}, time.Second, time.Hour)
	gatherer.Collect(context.Background(), gatherer.Registry.NewTimeSlice(time.Now(), time.Second))
}

func TestRun_StopsOnCancel(t *testing.T) {
	gatherer := New(nil, 10*time.Millisecond, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		gatherer.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("gatherer did not stop")
	}
}
