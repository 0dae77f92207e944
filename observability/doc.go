// Package observability wires OpenTelemetry tracing and metrics for trustd.
//
//	shutdown, err := observability.Setup(ctx, cfg, "trustd", version)
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewAuthMetrics(observability.Meter("trustd"))
//	metrics.RecordDecision(ctx, "reject", "expired")
//
// When telemetry is disabled the global no-op providers stay in place and
// every instrument is free to call.
package observability
