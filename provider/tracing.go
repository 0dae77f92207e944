package provider

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/trustauth/observability"
	"github.com/kbukum/trustauth/principal"
)

// WithTracing wraps every verification in a "provider.verify" span.
func WithTracing() Middleware {
	return func(inner Provider) Provider {
		return &tracingProvider{inner: inner}
	}
}

type tracingProvider struct {
	inner Provider
}

func (t *tracingProvider) Name() string { return t.inner.Name() }

func (t *tracingProvider) Verify(ctx context.Context, cred Credential) (*principal.Principal, error) {
	ctx, span := observability.StartSpan(ctx, "provider.verify",
		attribute.String(observability.AttrProvider, t.inner.Name()))
	defer span.End()

	p, err := t.inner.Verify(ctx, cred)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return p, err
}
