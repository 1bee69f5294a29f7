package telemetry

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNew_DisabledReturnsNoop(t *testing.T) {
	for _, cfg := range []Config{{}, {Enabled: true}, {Endpoint: "localhost:4317"}} {
		rec, err := New(context.Background(), "dev", cfg)
		if err != nil {
			t.Fatalf("New(%+v) error: %v", cfg, err)
		}
		if _, ok := rec.(Noop); !ok {
			t.Errorf("New(%+v) = %T, want Noop", cfg, rec)
		}
	}
}

func TestOTel_RecordsCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	rec, err := NewOTel(provider)
	if err != nil {
		t.Fatalf("NewOTel: %v", err)
	}
	ctx := context.Background()
	t.Cleanup(func() { _ = rec.Close(ctx) })

	rec.SessionStarted(ctx, "Claude-3.5")
	rec.StepStarted(ctx, "testing")
	rec.StepStarted(ctx, "testing")
	rec.StepCompleted(ctx, "completed", 2*time.Second)
	rec.ProjectCompleted(ctx, "completed")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	sums := map[string]int64{}
	var sawHistogram bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			case metricdata.Histogram[float64]:
				sawHistogram = len(data.DataPoints) > 0
			}
		}
	}

	want := map[string]int64{
		"projtrack_sessions_started_total":   1,
		"projtrack_steps_started_total":      2,
		"projtrack_steps_completed_total":    1,
		"projtrack_projects_completed_total": 1,
	}
	for name, v := range want {
		if sums[name] != v {
			t.Errorf("%s = %d, want %d", name, sums[name], v)
		}
	}
	if !sawHistogram {
		t.Error("step duration histogram not recorded")
	}
}
