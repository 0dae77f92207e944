package provider_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/trustauth/logger"
	"github.com/kbukum/trustauth/observability"
	"github.com/kbukum/trustauth/principal"
	"github.com/kbukum/trustauth/provider"
)

type orderTracker struct {
	inner provider.Provider
	tag   string
	order *[]string
}

func (o *orderTracker) Name() string { return o.inner.Name() }

func (o *orderTracker) Verify(ctx context.Context, c provider.Credential) (*principal.Principal, error) {
	*o.order = append(*o.order, o.tag+":before")
	p, err := o.inner.Verify(ctx, c)
	*o.order = append(*o.order, o.tag+":after")
	return p, err
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(tag string) provider.Middleware {
		return func(inner provider.Provider) provider.Provider {
			return &orderTracker{inner: inner, tag: tag, order: &order}
		}
	}
	p := &stubProvider{name: "facebook", user: &principal.Principal{Username: "u"}}
	wrapped := provider.Chain(mw("A"), mw("B"), mw("C"))(p)

	if _, err := wrapped.Verify(context.Background(), provider.Credential{}); err != nil {
		t.Fatal(err)
	}
	want := []string{"A:before", "B:before", "C:before", "C:after", "B:after", "A:after"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
	if wrapped.Name() != "facebook" {
		t.Errorf("Name = %q, wrappers must keep the inner name", wrapped.Name())
	}
}

func TestChain_Empty(t *testing.T) {
	p := &stubProvider{name: "local"}
	if provider.Chain()(p) != p {
		t.Error("empty chain should return the provider unchanged")
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)

	ok := provider.WithLogging(log)(&stubProvider{name: "facebook", user: &principal.Principal{Username: "alice"}})
	if _, err := ok.Verify(context.Background(), provider.Credential{AccessToken: "secret-token"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"provider":"facebook"`) || !strings.Contains(buf.String(), `"principal":"alice"`) {
		t.Errorf("log = %s", buf.String())
	}
	if strings.Contains(buf.String(), "secret-token") {
		t.Error("credentials must not be logged")
	}

	buf.Reset()
	failing := provider.WithLogging(log)(&stubProvider{name: "google", err: stderrors.New("denied")})
	if _, err := failing.Verify(context.Background(), provider.Credential{}); err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) || !strings.Contains(buf.String(), "denied") {
		t.Errorf("log = %s", buf.String())
	}
}

func TestWithLogging_NoPrincipal(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)

	wrapped := provider.WithLogging(log)(&stubProvider{name: "broken"})
	p, err := wrapped.Verify(context.Background(), provider.Credential{})
	if p != nil || !stderrors.Is(err, provider.ErrNoPrincipal) {
		t.Fatalf("Verify = %v, %v; want ErrNoPrincipal", p, err)
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Errorf("log = %s", buf.String())
	}
}

func TestWithMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := observability.NewAuthMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	p := provider.WithMetrics(metrics)(&stubProvider{name: "facebook", err: stderrors.New("x")})
	_, _ = p.Verify(context.Background(), provider.Credential{})

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == "auth.provider.verify" {
				found = true
			}
		}
	}
	if !found {
		t.Error("auth.provider.verify not recorded")
	}
}

func TestWithTracing(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	p := provider.WithTracing()(&stubProvider{name: "google", err: stderrors.New("denied")})
	_, _ = p.Verify(context.Background(), provider.Credential{})

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "provider.verify" {
		t.Fatalf("spans = %+v", spans)
	}
	if len(spans[0].Events) == 0 {
		t.Error("error should be recorded on the span")
	}
}
