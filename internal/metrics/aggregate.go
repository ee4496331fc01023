package metrics

import (
	"fmt"
	"oscrelay/internal/calc"
	"oscrelay/internal/global"
	"strconv"
	"strings"
	"time"
)

// Reduces every data point of one metric in the window to a single value
func (registry *Registry) Aggregate(aggType, name string, namespacePrefix []string, start, end time.Time) (result Metric, err error) {
	if name == "" {
		err = fmt.Errorf("metric name is required for aggregation")
		return
	}

	matches := registry.Search(name, namespacePrefix, start, end)
	if len(matches) == 0 {
		err = fmt.Errorf("no data points for metric '%s' in namespace '%s'", name, strings.Join(namespacePrefix, "/"))
		return
	}

	values := make([]float64, 0, len(matches))
	for _, metric := range matches {
		value, ok := toFloat64(metric.Value.Raw)
		if !ok {
			err = fmt.Errorf("metric '%s' has non-numeric value %v", name, metric.Value.Raw)
			return
		}
		values = append(values, value)
	}

	var aggregated float64
	switch aggType {
	case global.MetricSum:
		aggregated = calc.Sum(values)
	case global.MetricAvg, "":
		aggregated = calc.Sum(values) / float64(len(values))
	case global.MetricMin:
		aggregated, _ = calc.Bounds(values)
	case global.MetricMax:
		_, aggregated = calc.Bounds(values)
	case global.MetricTrimmedAvg:
		aggregated = calc.TrimmedMean(values, global.MetricTrimShare)
	default:
		err = fmt.Errorf("unknown aggregation type '%s'", aggType)
		return
	}

	first := matches[0]
	last := matches[len(matches)-1]
	result = Metric{
		Name:        name,
		Description: first.Description,
		Namespace:   namespacePrefix,
		Value: MetricValue{
			Raw:      aggregated,
			Unit:     first.Value.Unit,
			Interval: last.Timestamp.Sub(first.Timestamp) + first.Value.Interval,
		},
		Type:      Summary,
		Timestamp: last.Timestamp,
	}
	return
}

func toFloat64(raw any) (value float64, ok bool) {
	ok = true
	switch typed := raw.(type) {
	case uint64:
		value = float64(typed)
	case int64:
		value = float64(typed)
	case int:
		value = float64(typed)
	case float64:
		value = typed
	case float32:
		value = float64(typed)
	case string:
		var err error
		value, err = strconv.ParseFloat(typed, 64)
		ok = err == nil
	default:
		ok = false
	}
	return
}
