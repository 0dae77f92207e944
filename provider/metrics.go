package provider

import (
	"context"
	"time"

	"github.com/kbukum/trustauth/observability"
	"github.com/kbukum/trustauth/principal"
)

// WithMetrics records a count and latency for every verification.
func WithMetrics(metrics *observability.AuthMetrics) Middleware {
	return func(inner Provider) Provider {
		return &metricsProvider{inner: inner, metrics: metrics}
	}
}

type metricsProvider struct {
	inner   Provider
	metrics *observability.AuthMetrics
}

func (m *metricsProvider) Name() string { return m.inner.Name() }

func (m *metricsProvider) Verify(ctx context.Context, cred Credential) (*principal.Principal, error) {
	start := time.Now()
	p, err := m.inner.Verify(ctx, cred)
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.metrics.RecordVerify(ctx, m.inner.Name(), status, time.Since(start))
	return p, err
}
