package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rpaetl/internal/domain"
	"rpaetl/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AuditEvent is one entry of AuditTrailResponse.
type AuditEvent struct {
	EventID     uuid.UUID          `json:"event_id"`
	EventIndex  int                `json:"event_index"`
	Timestamp   time.Time          `json:"timestamp"`
	Stage       domain.Stage       `json:"stage"`
	Status      domain.EventStatus `json:"status"`
	Details     json.RawMessage    `json:"details"`
	ErrorPolicy domain.ErrorPolicy `json:"error_policy"`
}

// AuditTrailResponse is the result of GET /api/v1/executions/:id/audit.
type AuditTrailResponse struct {
	ExecutionID      string                   `json:"execution_id"`
	TenantID         string                   `json:"tenant_id"`
	TraceID          string                   `json:"trace_id"`
	StartTime        time.Time                `json:"start_time"`
	EndTime          *time.Time               `json:"end_time"`
	FinalStatus      domain.PipelineStatus    `json:"final_status"`
	TrustScore       float64                  `json:"trust_score"`
	DispatchStatus   domain.DispatchStatus    `json:"dispatch_status"`
	Events           []AuditEvent             `json:"events"`
	ValidationIssues []domain.ValidationIssue `json:"validation_issues"`
}

// ExecutionHandler handles stored execution endpoints.
type ExecutionHandler struct {
	executionService service.ExecutionService
}

// NewExecutionHandler creates a new ExecutionHandler.
func NewExecutionHandler(executionService service.ExecutionService) *ExecutionHandler {
	return &ExecutionHandler{executionService: executionService}
}

// Audit handles GET /api/v1/executions/:id/audit
func (h *ExecutionHandler) Audit(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	trail, err := h.executionService.GetAuditTrail(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}

	exec := trail.Execution
	resp := AuditTrailResponse{
		ExecutionID:      exec.ExecutionID,
		TenantID:         exec.TenantID,
		TraceID:          exec.TraceID,
		StartTime:        exec.StartTime,
		EndTime:          exec.EndTime,
		FinalStatus:      exec.FinalStatus,
		TrustScore:       exec.TrustScore,
		DispatchStatus:   exec.DispatchStatus,
		Events:           make([]AuditEvent, 0, len(trail.Events)),
		ValidationIssues: trail.Issues,
	}
	for _, ev := range trail.Events {
		resp.Events = append(resp.Events, AuditEvent{
			EventID:     ev.EventID,
			EventIndex:  ev.EventIndex,
			Timestamp:   ev.Timestamp,
			Stage:       ev.Stage,
			Status:      ev.Status,
			Details:     ev.Details,
			ErrorPolicy: ev.ErrorPolicy,
		})
	}
	RespondOK(c, resp)
}

// Envelope handles GET /api/v1/executions/:id/envelope
func (h *ExecutionHandler) Envelope(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	env, err := h.executionService.GetEnvelope(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", env)
}

// ExportXLSX handles GET /api/v1/executions/:id/export.xlsx
func (h *ExecutionHandler) ExportXLSX(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	executionID := c.Param("id")
	data, err := h.executionService.ExportXLSX(c.Request.Context(), tenantID, executionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, executionID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ExportCSV handles GET /api/v1/executions/:id/export.csv
func (h *ExecutionHandler) ExportCSV(c *gin.Context) {
	tenantID, ok := tenantFromContext(c)
	if !ok {
		return
	}

	executionID := c.Param("id")
	data, err := h.executionService.ExportCSV(c.Request.Context(), tenantID, executionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, executionID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
