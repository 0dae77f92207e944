package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.MetricInterval != 15*time.Second {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled config should validate: %v", err)
	}
	cfg.Enabled = true
	cfg.SampleRate = 2
	if err := cfg.Validate(); err == nil {
		t.Error("expected sample rate error")
	}
}

func TestSetup_DisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{}, "trustd", "dev")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) []metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s is %T, want Sum[int64]", name, m.Data)
			}
			return sum.DataPoints
		}
	}
	return nil
}

func TestAuthMetrics_Record(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewAuthMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewAuthMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordDecision(ctx, "reject", "expired")
	m.RecordDecision(ctx, "reject", "expired")
	m.RecordDecision(ctx, "proceed", "")
	m.RecordVerify(ctx, "facebook", "ok", 20*time.Millisecond)
	m.RecordTokenIssued(ctx, "refresh")

	points := collectSum(t, reader, "auth.filter.decisions")
	if len(points) != 2 {
		t.Fatalf("decision series = %d, want 2", len(points))
	}
	for _, dp := range points {
		reason, _ := dp.Attributes.Value(attribute.Key(AttrReason))
		if reason.AsString() == "expired" && dp.Value != 2 {
			t.Errorf("expired count = %d, want 2", dp.Value)
		}
	}
	if got := collectSum(t, reader, "auth.tokens.issued"); len(got) != 1 || got[0].Value != 1 {
		t.Errorf("tokens issued = %+v", got)
	}
	if got := collectSum(t, reader, "auth.provider.verify"); len(got) != 1 {
		t.Errorf("verify series = %+v", got)
	}
}

func TestAuthMetrics_NilIsSafe(t *testing.T) {
	var m *AuthMetrics
	m.RecordDecision(context.Background(), "proceed", "")
	m.RecordVerify(context.Background(), "local", "ok", time.Millisecond)
	m.RecordTokenIssued(context.Background(), "issue")
}

func TestStartSpanAndSetSpanError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	ctx, span := StartSpan(context.Background(), "provider.verify", attribute.String(AttrProvider, "facebook"))
	SetSpanError(ctx, errors.New("profile fetch failed"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("status = %v, want Error", spans[0].Status.Code)
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected a recorded error event")
	}
}

func TestSampler(t *testing.T) {
	if sampler(1).Description() != sdktrace.AlwaysSample().Description() {
		t.Error("rate 1 should always sample")
	}
	if sampler(0).Description() != sdktrace.NeverSample().Description() {
		t.Error("rate 0 should never sample")
	}
}

type staticChecker Health

func (s staticChecker) CheckHealth(context.Context) Health { return Health(s) }

func TestAggregate(t *testing.T) {
	up := staticChecker{Name: "database", Status: HealthStatusUp}
	degraded := staticChecker{Name: "cache", Status: HealthStatusDegraded}
	down := staticChecker{Name: "queue", Status: HealthStatusDown}

	tests := []struct {
		name     string
		checkers []HealthChecker
		want     HealthStatus
	}{
		{"no checkers", nil, HealthStatusUp},
		{"all up", []HealthChecker{up}, HealthStatusUp},
		{"degraded wins over up", []HealthChecker{up, degraded}, HealthStatusDegraded},
		{"down wins regardless of order", []HealthChecker{down, degraded, up}, HealthStatusDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Aggregate(context.Background(), "trustd", "dev", tt.checkers...)
			if report.Status != tt.want {
				t.Errorf("status = %s, want %s", report.Status, tt.want)
			}
			if len(report.Components) != len(tt.checkers) {
				t.Errorf("components = %d, want %d", len(report.Components), len(tt.checkers))
			}
			for _, h := range report.Components {
				if h.Latency == "" {
					t.Errorf("%s has no latency", h.Name)
				}
			}
		})
	}
}
