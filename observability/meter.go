package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

func initMeter(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// AuthMetrics holds the instruments recorded by the filter, the providers
// and the token service.
type AuthMetrics struct {
	decisions      metric.Int64Counter
	verifyTotal    metric.Int64Counter
	verifyDuration metric.Float64Histogram
	tokensIssued   metric.Int64Counter
}

// NewAuthMetrics creates the instruments on meter.
func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	decisions, err := meter.Int64Counter("auth.filter.decisions",
		metric.WithDescription("Authentication filter decisions by outcome and reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.filter.decisions counter: %w", err)
	}
	verifyTotal, err := meter.Int64Counter("auth.provider.verify",
		metric.WithDescription("Identity provider verifications by provider and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.provider.verify counter: %w", err)
	}
	verifyDuration, err := meter.Float64Histogram("auth.provider.verify.duration",
		metric.WithDescription("Duration of identity provider verifications"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.provider.verify.duration histogram: %w", err)
	}
	tokensIssued, err := meter.Int64Counter("auth.tokens.issued",
		metric.WithDescription("Tokens signed, by kind (issue or refresh)"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.tokens.issued counter: %w", err)
	}
	return &AuthMetrics{
		decisions:      decisions,
		verifyTotal:    verifyTotal,
		verifyDuration: verifyDuration,
		tokensIssued:   tokensIssued,
	}, nil
}

// RecordDecision counts one filter decision. reason is empty for proceed.
func (m *AuthMetrics) RecordDecision(ctx context.Context, outcome, reason string) {
	if m == nil {
		return
	}
	m.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOutcome, outcome),
		attribute.String(AttrReason, reason),
	))
}

// RecordVerify counts one provider verification and its latency.
func (m *AuthMetrics) RecordVerify(ctx context.Context, provider, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.verifyTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrProvider, provider),
		attribute.String(AttrStatus, status),
	))
	m.verifyDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String(AttrProvider, provider),
	))
}

// RecordTokenIssued counts a signed token. kind is "issue" or "refresh".
func (m *AuthMetrics) RecordTokenIssued(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.tokensIssued.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrTokenKind, kind)))
}
