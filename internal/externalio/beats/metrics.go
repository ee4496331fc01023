package beats

import (
	"oscrelay/internal/metrics"
	"time"
)

func (mirror *Mirror) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	sent := mirror.Metrics.Sent.Swap(0)
	sendErrs := mirror.Metrics.SendErrors.Swap(0)
	dropped := mirror.Metrics.Dropped.Swap(0)
	recordTime := time.Now()

	collection = []metrics.Metric{
		{
			Name:        "events_sent_total",
			Description: "Events acknowledged by the beats server in the interval",
			Namespace:   mirror.Namespace,
			Value:       metrics.MetricValue{Raw: sent, Unit: "count", Interval: interval},
			Type:        metrics.Counter,
			Timestamp:   recordTime,
		},
		{
			Name:        "send_errors_total",
			Description: "Batches that failed to send in the interval",
			Namespace:   mirror.Namespace,
			Value:       metrics.MetricValue{Raw: sendErrs, Unit: "count", Interval: interval},
			Type:        metrics.Counter,
			Timestamp:   recordTime,
		},
		{
			Name:        "events_dropped_total",
			Description: "Events lost in failed batches in the interval",
			Namespace:   mirror.Namespace,
			Value:       metrics.MetricValue{Raw: dropped, Unit: "count", Interval: interval},
			Type:        metrics.Counter,
			Timestamp:   recordTime,
		},
	}
	collection = append(collection, mirror.queue.CollectMetrics(interval)...)
	return
}
