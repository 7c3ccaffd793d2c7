package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rpaetl/internal/domain"
	"rpaetl/internal/handler"
	"rpaetl/internal/metrics"
	"rpaetl/internal/router"
	"rpaetl/mocks"
)

func setupEngine(t *testing.T) (*gin.Engine, *mocks.MockExecutionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	execSvc := new(mocks.MockExecutionService)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.IncrementProcessed("success", "enterprise")

	healthH := handler.NewHealthHandler("test", handler.HealthCheck{
		Name: "database", Critical: true, Check: func(context.Context) error { return nil },
	})
	processH := handler.NewProcessHandler(new(mocks.MockProcessingService), 1<<20, []string{"application/pdf"})
	execH := handler.NewExecutionHandler(execSvc)

	return router.Setup(nil, healthH, processH, execH, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})), execSvc
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r, _ := setupEngine(t)

	for _, path := range []string{"/healthz", "/readyz", "/health"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rpaetl_documents_processed_total")
}

func TestRouter_ExecutionsRequireTenant(t *testing.T) {
	r, execSvc := setupEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/executions/acme_000000000001/audit", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	execSvc.AssertNotCalled(t, "GetAuditTrail", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_ExecutionExportRoute(t *testing.T) {
	r, execSvc := setupEngine(t)
	execSvc.On("ExportCSV", mock.Anything, "acme", "acme_000000000001").Return([]byte("csv"), nil)
	execSvc.On("GetEnvelope", mock.Anything, "acme", "missing").Return(nil, domain.ErrExecutionNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/executions/acme_000000000001/export.csv", http.NoBody)
	req.Header.Set("X-Tenant-ID", "acme")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/v1/executions/missing/envelope", http.NoBody)
	req.Header.Set("X-Tenant-ID", "acme")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_WithoutPersistence(t *testing.T) {
	healthH := handler.NewHealthHandler("test")
	processH := handler.NewProcessHandler(new(mocks.MockProcessingService), 1<<20, []string{"application/pdf"})
	r := router.Setup(nil, healthH, processH, nil, nil)

	for _, path := range []string{"/api/v1/executions/x/audit", "/metrics"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, http.NoBody)
		req.Header.Set("X-Tenant-ID", "acme")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}
