package metrics

import (
	"oscrelay/internal/metrics"
	"time"
)

// Anything that can report and reset its interval counters
type Collector interface {
	CollectMetrics(interval time.Duration) []metrics.Metric
}

type Gatherer struct {
	Interval  time.Duration     // Polling interval to gather metrics at
	Retention time.Duration     // Maximum time to maintain metrics for
	Registry  *metrics.Registry // Storage for metric data
	sources   []Collector       // Relay workers and queues
}
