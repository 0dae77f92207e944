package provider

import (
	"context"
	"time"

	"github.com/kbukum/trustauth/logger"
	"github.com/kbukum/trustauth/principal"
)

// WithLogging logs every verification with its outcome and duration.
func WithLogging(log *logger.Logger) Middleware {
	return func(inner Provider) Provider {
		return &loggingProvider{inner: inner, log: log}
	}
}

type loggingProvider struct {
	inner Provider
	log   *logger.Logger
}

func (l *loggingProvider) Name() string { return l.inner.Name() }

func (l *loggingProvider) Verify(ctx context.Context, cred Credential) (*principal.Principal, error) {
	start := time.Now()
	p, err := result(l.inner.Verify(ctx, cred))

	fields := logger.DurationFields("verify", time.Since(start))
	fields[logger.FieldProvider] = l.inner.Name()
	log := l.log.WithContext(ctx)
	if err != nil {
		fields[logger.FieldError] = err.Error()
		log.Warn("provider verification failed", fields)
		return nil, err
	}
	fields[logger.FieldPrincipal] = p.Username
	log.Debug("provider verification ok", fields)
	return p, nil
}
