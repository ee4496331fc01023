// Gathers relay worker and queue metrics and saves them to the central registry
package metrics

import (
	"context"
	"oscrelay/internal/global"
	"oscrelay/internal/logctx"
	"oscrelay/internal/metrics"
	"runtime/debug"
	"time"
)

func New(sources []Collector, interval time.Duration, maximumMetricAge time.Duration) (new *Gatherer) {
	new = &Gatherer{
		Registry:  metrics.New(),
		sources:   sources,
		Interval:  interval,
		Retention: maximumMetricAge,
	}
	return
}

func (gatherer *Gatherer) Run(ctx context.Context) {
	ctx = logctx.AppendCtxTag(ctx, global.NSMetric)

	lastRun := time.Now()

	ticker := time.NewTicker(gatherer.Interval / 2) // Use polling interval half of desired record interval
	defer ticker.Stop()

	// Counter to track how many ticks have passed (for retention)
	var tickCount int

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Sub(lastRun) >= gatherer.Interval {
				timeSlice := gatherer.Registry.NewTimeSlice(now, gatherer.Interval)
				lastRun = now
				gatherer.Collect(ctx, timeSlice)
			}

			tickCount++
			if tickCount >= 30 {
				gatherer.Registry.Prune(now, gatherer.Retention)
				tickCount = 0
			}
		}
	}
}

// Reads every source once into the given time slice
func (gatherer *Gatherer) Collect(ctx context.Context, timeSlice time.Time) {
	// Record panics and continue on next interval
	defer func() {
		if fatalError := recover(); fatalError != nil {
			stack := debug.Stack()
			logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
				"panic in relay metric collector thread: %v\n%s", fatalError, stack)
		}
	}()

	var collection []metrics.Metric
	for _, source := range gatherer.sources {
		collection = append(collection, source.CollectMetrics(gatherer.Interval)...)
	}
	gatherer.Registry.Add(timeSlice, collection)
}
