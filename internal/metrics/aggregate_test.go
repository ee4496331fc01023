package metrics

import (
	"oscrelay/internal/global"
	"testing"
	"time"
)

func TestRegistry_Aggregate(t *testing.T) {
	reg, ts := setupRegistryWithData(t)
	reg.Add(ts["ts2"], []Metric{
		{
			Name:      "elapsed_time",
			Namespace: []string{"Relay", "SC", "Queue"},
			Type:      Gauge,
			Timestamp: ts["ts2"],
			Value:     MetricValue{Raw: "250", Unit: "ns"},
		},
		{
			Name:      "bad_metric",
			Namespace: []string{"Relay", "SC", "Queue"},
			Type:      Gauge,
			Timestamp: ts["ts2"],
			Value:     MetricValue{Raw: "abc"},
		},
	})

	tests := []struct {
		name      string
		aggType   string
		metric    string
		namespace []string
		want      float64
		wantError bool
	}{
		{"sum across namespaces", global.MetricSum, "depth", []string{"Relay"}, 4, false}, // 3 + 0 + 1
		{"sum single namespace", global.MetricSum, "depth", []string{"Relay", "SC"}, 4, false},
		{"min", global.MetricMin, "depth", []string{"Relay"}, 0, false},
		{"max", global.MetricMax, "depth", []string{"Relay"}, 3, false},
		{"avg", global.MetricAvg, "depth", []string{"Relay"}, 4.0 / 3.0, false},
		{"default is avg", "", "depth", []string{"Relay"}, 4.0 / 3.0, false},
		{"trimmed avg keeps middle", global.MetricTrimmedAvg, "depth", []string{"Relay"}, 4.0 / 3.0, false},
		{"string numeric aggregation", global.MetricSum, "elapsed_time", nil, 250, false},
		{"non-numeric error", global.MetricSum, "bad_metric", nil, 0, true},
		{"unknown type", "median", "depth", nil, 0, true},
		{"missing name", global.MetricSum, "", nil, 0, true},
		{"no results", global.MetricSum, "missing", nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := reg.Aggregate(tt.aggType, tt.metric, tt.namespace, time.Time{}, time.Time{})

			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Value.Raw != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, result.Value.Raw)
			}
			if result.Type != Summary {
				t.Errorf("expected summary type, got %s", result.Type)
			}
		})
	}
}

func TestRegistry_Aggregate_Window(t *testing.T) {
	reg, ts := setupRegistryWithData(t)

	result, err := reg.Aggregate(global.MetricSum, "depth", []string{"Relay", "SC"}, ts["ts2"], ts["ts2"])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Value.Raw != float64(1) {
		t.Fatalf("expected only second slice (1), got %v", result.Value.Raw)
	}
	if result.Value.Unit != "count" {
		t.Errorf("expected unit carried over, got %q", result.Value.Unit)
	}
}
