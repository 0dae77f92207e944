package observability

import (
	"context"
	"time"
)

// HealthStatus is the state reported by /health.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// severity orders statuses; the worst component decides the service status.
func (s HealthStatus) severity() int {
	switch s {
	case HealthStatusUp:
		return 0
	case HealthStatusDegraded:
		return 1
	default:
		return 2
	}
}

// Health is one component's report.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
	Latency string       `json:"latency,omitempty"`
}

// HealthChecker is implemented by components that can report their health.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// ServiceHealth is the aggregated /health body.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Version    string       `json:"version,omitempty"`
	Status     HealthStatus `json:"status"`
	Timestamp  time.Time    `json:"timestamp"`
	Components []Health     `json:"components,omitempty"`
}

// Aggregate runs every checker in order and reports the worst status seen.
// No checkers means up.
func Aggregate(ctx context.Context, service, version string, checkers ...HealthChecker) ServiceHealth {
	report := ServiceHealth{
		Service:   service,
		Version:   version,
		Status:    HealthStatusUp,
		Timestamp: time.Now().UTC(),
	}
	for _, hc := range checkers {
		start := time.Now()
		h := hc.CheckHealth(ctx)
		if h.Latency == "" {
			h.Latency = time.Since(start).String()
		}
		report.Components = append(report.Components, h)
		if h.Status.severity() > report.Status.severity() {
			report.Status = h.Status
		}
	}
	return report
}
