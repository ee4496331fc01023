package fifo

import (
	"oscrelay/internal/metrics"
	"time"
)

func (queue *Queue[T]) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	depth := queue.Metrics.Depth.Load()
	byteSum := queue.Metrics.Bytes.Load()
	maxDepth := queue.Metrics.MaxDepth.Swap(depth)
	pushes := queue.Metrics.PushTotal.Swap(0)
	pops := queue.Metrics.PopTotal.Swap(0)
	waits := queue.Metrics.PopWaits.Swap(0)
	wakeups := queue.Metrics.PopWakeups.Swap(0)

	recordTime := time.Now()

	add := func(name string, raw any, unit string, t metrics.MetricType, description string) {
		collection = append(collection, metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   queue.Namespace,
			Type:        t,
			Timestamp:   recordTime,
			Value: metrics.MetricValue{
				Raw:      raw,
				Unit:     unit,
				Interval: interval,
			},
		})
	}

	add("depth", depth, "count", metrics.Gauge, "Current number of messages waiting to be sent")
	add("max_depth", maxDepth, "count", metrics.Gauge, "Highest number of waiting messages seen in the interval")
	add("byte_sum", byteSum, "bytes", metrics.Gauge, "Estimated byte sum of all waiting messages")
	add("push_total", pushes, "count", metrics.Counter, "Messages enqueued in the interval")
	add("pop_total", pops, "count", metrics.Counter, "Messages dequeued in the interval")
	add("pop_waits", waits, "count", metrics.Counter, "Times the consumer blocked on an empty queue in the interval")
	add("pop_wakeups", wakeups, "count", metrics.Counter, "Times a blocked consumer was woken by new data in the interval")
	return
}
