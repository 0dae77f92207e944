// Package filter decides, once per request, whether a bearer token
// authenticates the caller.
//
// Decide is transport independent; Middleware and Gin adapt it to net/http
// and gin. A missing token is not a rejection: the request continues
// unauthenticated and route policy (RequireAuthenticated) decides whether
// that is acceptable. Every rejection looks the same to the client; the
// specific cause only reaches logs and metrics.
package filter

import (
	"context"
	stderrors "errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/trustauth/auth/token"
	"github.com/kbukum/trustauth/errors"
	"github.com/kbukum/trustauth/logger"
	"github.com/kbukum/trustauth/observability"
	"github.com/kbukum/trustauth/principal"
)

// RejectMessage is the only explanation a rejected client receives.
const RejectMessage = "Invalid or expired authentication token."

// Reason kinds recorded on rejected decisions in addition to token.Kind.
const (
	KindUnknownPrincipal = "unknown_principal"
	KindStoreFailure     = "store_failure"
)

// Outcome is the filter's verdict.
type Outcome int

const (
	Proceed Outcome = iota
	Reject
)

// String returns the outcome label used in logs and metrics.
func (o Outcome) String() string {
	if o == Reject {
		return "reject"
	}
	return "proceed"
}

// Decision is the result of Decide. A Proceed decision with a nil
// Principal lets the request through unauthenticated.
type Decision struct {
	Outcome   Outcome
	Principal *principal.Principal
	// Reason is what the client sees on Reject.
	Reason error
	// Kind names the internal cause of a Reject. Never sent to clients.
	Kind string
}

// Tokens is the part of the token service the filter needs.
type Tokens interface {
	SubjectOf(raw string) (string, error)
	Verify(raw string, p *principal.Principal) error
}

// Filter authenticates bearer tokens against the user store. It holds no
// per-request state.
type Filter struct {
	tokens  Tokens
	users   principal.Finder
	log     *logger.Logger
	metrics *observability.AuthMetrics
}

// Option configures a Filter.
type Option func(*Filter)

// WithLogger sets the logger decisions are recorded with.
func WithLogger(l *logger.Logger) Option {
	return func(f *Filter) { f.log = l }
}

// WithMetrics counts decisions by outcome.
func WithMetrics(m *observability.AuthMetrics) Option {
	return func(f *Filter) { f.metrics = m }
}

// New returns a filter verifying bearer tokens with tokens and loading
// principals from users.
func New(tokens Tokens, users principal.Finder, opts ...Option) *Filter {
	f := &Filter{tokens: tokens, users: users, log: logger.Nop()}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.WithComponent("auth.filter")
	return f
}

// Decide authenticates raw. An empty raw proceeds unauthenticated.
func (f *Filter) Decide(ctx context.Context, raw string) Decision {
	if raw == "" {
		f.record(ctx, Decision{Outcome: Proceed}, nil)
		return Decision{Outcome: Proceed}
	}

	ctx, span := observability.StartSpan(ctx, "auth.filter.decide")
	defer span.End()

	d, cause := f.decide(ctx, raw)
	span.SetAttributes(
		attribute.String(observability.AttrOutcome, d.Outcome.String()),
		attribute.String(observability.AttrReason, d.Kind),
	)
	f.record(ctx, d, cause)
	return d
}

func (f *Filter) decide(ctx context.Context, raw string) (Decision, error) {
	subject, err := f.tokens.SubjectOf(raw)
	if err != nil {
		return rejected(token.Kind(err)), err
	}

	p, err := f.users.FindByUsername(ctx, subject)
	if stderrors.Is(err, principal.ErrNotFound) {
		return rejected(KindUnknownPrincipal), err
	}
	if err != nil {
		// store failures are not the client's fault; surface them as is
		return Decision{Outcome: Reject, Reason: err, Kind: KindStoreFailure}, err
	}

	if err := f.tokens.Verify(raw, p); err != nil {
		return rejected(token.Kind(err)), err
	}
	return Decision{Outcome: Proceed, Principal: p}, nil
}

func rejected(kind string) Decision {
	return Decision{Outcome: Reject, Reason: Unauthorized(), Kind: kind}
}

// Unauthorized returns the uniform rejection error.
func Unauthorized() *errors.AppError {
	return errors.Unauthorized(RejectMessage)
}

func (f *Filter) record(ctx context.Context, d Decision, cause error) {
	outcome := d.Outcome.String()
	if d.Outcome == Proceed && d.Principal == nil {
		outcome = "anonymous"
	}
	f.metrics.RecordDecision(ctx, outcome, d.Kind)

	log := f.log.WithContext(ctx)
	switch {
	case d.Outcome == Reject && d.Kind == KindStoreFailure:
		observability.SetSpanError(ctx, cause)
		log.Error("authentication aborted", logger.ErrorFields("find_principal", cause))
	case d.Outcome == Reject:
		fields := logger.Fields(logger.FieldReason, d.Kind)
		if cause != nil {
			fields[logger.FieldError] = cause.Error()
		}
		log.Warn("authentication rejected", fields)
	case d.Principal != nil:
		log.Debug("authenticated", logger.Fields(logger.FieldPrincipal, d.Principal.Username))
	}
}
