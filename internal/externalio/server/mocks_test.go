package server

import (
	"oscrelay/internal/metrics"
	"time"
)

func mockDiscoverer(results []metrics.Metric) Discoverer {
	return func(name, desc string, ns []string, unit string, mt metrics.MetricType) []metrics.Metric {
		return results
	}
}

func mockDataSearcher(results []metrics.Metric) DataSearcher {
	return func(name string, ns []string, start, end time.Time) []metrics.Metric {
		return results
	}
}

// Records the namespace each search was made with
func recordingSearcher(seen *[]string) DataSearcher {
	return func(name string, ns []string, start, end time.Time) []metrics.Metric {
		*seen = append([]string(nil), ns...)
		return nil
	}
}

func mockAggSearcher(result metrics.Metric, err error) AggSearcher {
	return func(aggType, name string, ns []string, start, end time.Time) (metrics.Metric, error) {
		return result, err
	}
}
