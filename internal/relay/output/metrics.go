package output

import (
	"oscrelay/internal/metrics"
	"sync/atomic"
	"time"
)

type MetricStorage struct {
	TotalPackets   atomic.Uint64 // datagrams written
	SumPacketBytes atomic.Uint64 // bytes written
	MaxPacketBytes atomic.Uint64 // largest datagram written
	EncodeErrors   atomic.Uint64 // messages that could not be encoded
	SendErrors     atomic.Uint64 // socket write failures
	Oversized      atomic.Uint64 // datagrams above the path payload size
	Refused        atomic.Uint64 // stale port unreachable errors absorbed by a rewrite
	Panics         atomic.Uint64 // recovered panics
}

func (instance *Instance) CollectMetrics(interval time.Duration) (collection []metrics.Metric) {
	// Read and clear
	totalPkts := instance.Metrics.TotalPackets.Swap(0)
	sumBytes := instance.Metrics.SumPacketBytes.Swap(0)
	maxBytes := instance.Metrics.MaxPacketBytes.Swap(0)
	encodeErrs := instance.Metrics.EncodeErrors.Swap(0)
	sendErrs := instance.Metrics.SendErrors.Swap(0)
	oversized := instance.Metrics.Oversized.Swap(0)
	refused := instance.Metrics.Refused.Swap(0)
	panics := instance.Metrics.Panics.Swap(0)

	recordTime := time.Now()

	var avgBytes uint64
	if totalPkts > 0 {
		avgBytes = sumBytes / totalPkts
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

	add("total_packets", "Datagrams sent in the interval", "count", totalPkts, metrics.Counter)
	add("sum_packet_bytes", "Bytes sent in the interval", "bytes", sumBytes, metrics.Counter)
	add("avg_packet_bytes", "Average datagram size in the interval", "bytes", avgBytes, metrics.Summary)
	add("max_packet_bytes", "Largest datagram sent in the interval", "bytes", maxBytes, metrics.Summary)
	add("encode_errors_total", "Messages dropped because they could not be encoded", "count", encodeErrs, metrics.Counter)
	add("send_errors_total", "Messages dropped by socket write failures", "count", sendErrs, metrics.Counter)
	add("oversized_total", "Datagrams larger than the path payload size", "count", oversized, metrics.Counter)
	add("refused_total", "Writes reissued after a port unreachable from an earlier datagram", "count", refused, metrics.Counter)
	add("panics_total", "Recovered panics in the interval", "count", panics, metrics.Counter)
	return
}
