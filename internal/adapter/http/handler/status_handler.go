package handler

import (
	"net/http"

	"temple-receipt-service/internal/core/ports"
	"temple-receipt-service/pkg/response"

	"github.com/gin-gonic/gin"
)

// HealthCheck handles GET /health. Deep check: every registered dependency
// is pinged and an unhealthy one degrades the whole response to 503.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}

// StatusHandler serves the read-only delivery status endpoint.
type StatusHandler struct {
	metrics  ports.MetricsRecorder
	checkers []ports.HealthChecker
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(metrics ports.MetricsRecorder, checkers []ports.HealthChecker) *StatusHandler {
	return &StatusHandler{metrics: metrics, checkers: checkers}
}

// GetStatus handles GET /api/v1/status. Unlike /health it always answers 200;
// reachability is reported per dependency, not via the HTTP status.
func (h *StatusHandler) GetStatus(c *gin.Context) {
	reachable := make(map[string]bool, len(h.checkers))
	for _, checker := range h.checkers {
		reachable[checker.Name()] = checker.Ping(c.Request.Context()) == nil
	}

	response.OK(c, gin.H{
		"delivery":  h.metrics.Snapshot(),
		"reachable": reachable,
	})
}
