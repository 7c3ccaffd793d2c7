package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Overall statuses reported by GET /health.
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency. A failing critical check makes the
// service unready; a failing non-critical one only degrades it.
type HealthCheck struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	version string
	checks  []HealthCheck
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{version: version, checks: checks}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	for _, chk := range h.checks {
		if !chk.Critical {
			continue
		}
		if err := h.run(c.Request.Context(), chk); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": chk.Name + " not reachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	status := HealthHealthy
	results := make(map[string]string, len(h.checks))
	for _, chk := range h.checks {
		if err := h.run(c.Request.Context(), chk); err != nil {
			results[chk.Name] = "error: " + err.Error()
			if chk.Critical {
				status = HealthUnhealthy
			} else if status == HealthHealthy {
				status = HealthDegraded
			}
			continue
		}
		results[chk.Name] = "ok"
	}

	code := http.StatusOK
	if status == HealthUnhealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"version":   h.version,
		"timestamp": time.Now().UTC(),
		"checks":    results,
	})
}

func (h *HealthHandler) run(ctx context.Context, chk HealthCheck) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	return chk.Check(ctx)
}
