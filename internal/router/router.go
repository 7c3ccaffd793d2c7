package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rpaetl/internal/handler"
	"rpaetl/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
// A nil execH or metricsHandler leaves its routes unregistered.
func Setup(
	allowedOrigins []string,
	healthH *handler.HealthHandler,
	processH *handler.ProcessHandler,
	execH *handler.ExecutionHandler,
	metricsHandler http.Handler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(middleware.TenantContext())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/health", healthH.Health)

	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	v1 := r.Group("/api/v1")

	// The tenant of a processing request may come from the context field.
	v1.POST("/process/pdf", processH.ProcessPDF)

	if execH != nil {
		executions := v1.Group("/executions")
		executions.Use(middleware.TenantGuard())
		executions.GET("/:id/audit", execH.Audit)
		executions.GET("/:id/envelope", execH.Envelope)
		executions.GET("/:id/export.xlsx", execH.ExportXLSX)
		executions.GET("/:id/export.csv", execH.ExportCSV)
	}

	return r
}
