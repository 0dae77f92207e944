// Package endpoint provides the service's operational endpoints.
package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/trustauth/observability"
)

// Health reports service health aggregated over checkers. A down component
// answers 503; degraded still answers 200.
func Health(service, version string, checkers ...observability.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := observability.Aggregate(c.Request.Context(), service, version, checkers...)
		status := http.StatusOK
		if report.Status == observability.HealthStatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	}
}
