package listener

import (
	"oscrelay/internal/metrics"
	"sync/atomic"
	"time"
)

type MetricStorage struct {
	BusyNs         atomic.Uint64 // sum of ns spent doing anything
	ValidPackets   atomic.Uint64 // datagrams that decoded as OSC
	InvalidPackets atomic.Uint64 // datagrams that failed decoding
	Messages       atomic.Uint64 // messages queued toward the other peer
	ReadErrors     atomic.Uint64 // failed socket reads
	Panics         atomic.Uint64 // recovered panics
	SumNs          atomic.Uint64 // sum of elapsed ns for all valid datagrams
	MaxNs          atomic.Uint64 // max observed datagram handling duration
}

func (instance *Instance) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	// Read and clear
	busyNs := instance.Metrics.BusyNs.Swap(0)
	valid := instance.Metrics.ValidPackets.Swap(0)
	invalid := instance.Metrics.InvalidPackets.Swap(0)
	messages := instance.Metrics.Messages.Swap(0)
	readErrs := instance.Metrics.ReadErrors.Swap(0)
	panics := instance.Metrics.Panics.Swap(0)
	sumNs := instance.Metrics.SumNs.Swap(0)
	maxNs := instance.Metrics.MaxNs.Swap(0)

	recordTime := time.Now()

	var busyPct float64
	if interval > 0 {
		busyPct = (float64(busyNs) / float64(interval.Nanoseconds())) * 100
	}

	var avgNs uint64
	if valid > 0 {
		avgNs = sumNs / valid
	}

	add := func(name, description, unit string, raw any, metricType metrics.MetricType) {
		collection = append(collection, metrics.Metric{
			Name:        name,
			Description: description,
			Namespace:   instance.Namespace,
			Value: metrics.MetricValue{
				Raw:      raw,
				Unit:     unit,
				Interval: interval,
			},
			Type:      metricType,
			Timestamp: recordTime,
		})
	}

	add("busy_time_percent", "Total time spent doing anything in the interval", "%", busyPct, metrics.Summary)
	add("valid_packets_total", "Datagrams decoded as OSC in the interval", "count", valid, metrics.Counter)
	add("invalid_packets_total", "Datagrams dropped as malformed in the interval", "count", invalid, metrics.Counter)
	add("messages_total", "Translated messages queued in the interval", "count", messages, metrics.Counter)
	add("read_errors_total", "Failed socket reads in the interval", "count", readErrs, metrics.Counter)
	add("panics_total", "Recovered panics in the interval", "count", panics, metrics.Counter)
	add("elapsed_time_avg_ns", "Average time spent handling one datagram in the interval", "ns", avgNs, metrics.Summary)
	add("elapsed_time_max_ns", "Maximum (seen) time spent handling one datagram in the interval", "ns", maxNs, metrics.Summary)
	return
}
