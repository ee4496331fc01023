package file

import (
	"oscrelay/internal/metrics"
	"time"
)

func (capture *Capture) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	// Read and clear
	lines := capture.Metrics.LinesWritten.Swap(0)
	writeErrs := capture.Metrics.WriteErrors.Swap(0)

	// Record read time
	recordTime := time.Now()

	collection = []metrics.Metric{
		{
			Name:        "lines_written",
			Description: "Total lines written to the capture file in the interval",
			Namespace:   capture.Namespace,
			Value: metrics.MetricValue{
				Raw:      lines,
				Unit:     "count",
				Interval: interval,
			},
			Type:      metrics.Counter,
			Timestamp: recordTime,
		},
		{
			Name:        "write_errors",
			Description: "Total failed flushes to the capture file in the interval",
			Namespace:   capture.Namespace,
			Value: metrics.MetricValue{
				Raw:      writeErrs,
				Unit:     "count",
				Interval: interval,
			},
			Type:      metrics.Counter,
			Timestamp: recordTime,
		},
	}
	collection = append(collection, capture.queue.CollectMetrics(interval)...)
	return
}
