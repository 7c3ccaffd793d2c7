package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rpaetl/internal/domain"
	"rpaetl/internal/middleware"
	"rpaetl/internal/reader"
	"rpaetl/internal/service"
)

// Response statuses of ProcessResponse.
const (
	ProcessCompleted = "completed"
	ProcessFailed    = "failed"
)

// ProcessResponse is the result of POST /api/v1/process/pdf.
type ProcessResponse struct {
	ExecutionID    string                `json:"execution_id"`
	Status         string                `json:"status"`
	Message        string                `json:"message"`
	Timestamp      time.Time             `json:"timestamp"`
	TraceID        string                `json:"trace_id"`
	PipelineStatus domain.PipelineStatus `json:"pipeline_status"`
	TrustScore     float64               `json:"trust_score"`
	Persisted      bool                  `json:"persisted"`
	DispatchStatus domain.DispatchStatus `json:"dispatch_status"`
	ArchiveKey     string                `json:"archive_key,omitempty"`
}

// ProcessHandler handles document processing endpoints.
type ProcessHandler struct {
	processingService service.ProcessingService
	maxUploadBytes    int64
	allowedTypes      map[string]bool
}

// NewProcessHandler creates a new ProcessHandler.
func NewProcessHandler(processingService service.ProcessingService, maxUploadBytes int64, allowedTypes []string) *ProcessHandler {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = true
	}
	return &ProcessHandler{
		processingService: processingService,
		maxUploadBytes:    maxUploadBytes,
		allowedTypes:      allowed,
	}
}

// ProcessPDF handles POST /api/v1/process/pdf
// Multipart fields: file (the PDF) and context (business context JSON).
// The tenant may come from the context or the X-Tenant-ID header; both must agree.
func (h *ProcessHandler) ProcessPDF(c *gin.Context) {
	// Leave room for the multipart framing and the context field.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleError(c, domain.ErrFileTooLarge)
			return
		}
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > h.maxUploadBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}
	mediaType, _, _ := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if !h.allowedTypes[mediaType] {
		HandleError(c, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, mediaType))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		HandleError(c, err)
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}
	if !reader.IsPDF(data) {
		HandleError(c, domain.ErrInvalidPDF)
		return
	}

	bc, err := h.businessContext(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	out, err := h.processingService.Process(c.Request.Context(), &service.ProcessInput{
		Filename: header.Filename,
		Data:     data,
		Context:  bc,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, toProcessResponse(out))
}

func (h *ProcessHandler) businessContext(c *gin.Context) (domain.BusinessContext, error) {
	var bc domain.BusinessContext
	if raw := c.PostForm("context"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &bc); err != nil {
			return bc, fmt.Errorf("%w: context is not valid JSON", domain.ErrInvalidContext)
		}
	}
	if headerTenant, err := middleware.GetTenantID(c); err == nil {
		switch bc.TenantID {
		case "":
			bc.TenantID = headerTenant
		case headerTenant:
		default:
			return bc, fmt.Errorf("%w: tenant_id does not match %s", domain.ErrInvalidContext, middleware.HeaderTenantID)
		}
	}
	return bc, nil
}

func toProcessResponse(out *service.ProcessOutput) ProcessResponse {
	res := out.Result
	resp := ProcessResponse{
		ExecutionID:    res.ExecutionID,
		Status:         ProcessCompleted,
		Message:        "document processed",
		Timestamp:      time.Now().UTC(),
		TraceID:        res.TraceID,
		PipelineStatus: res.Status,
		TrustScore:     res.TrustScore,
		Persisted:      out.Persisted,
		DispatchStatus: out.DispatchStatus,
		ArchiveKey:     out.ArchiveKey,
	}
	if res.Status != domain.PipelineError {
		return resp
	}
	resp.Status = ProcessFailed
	resp.Message = "document failed validation"
	for _, ev := range res.Events {
		if ev.Status == domain.EventFailure {
			resp.Message = fmt.Sprintf("processing aborted at %s", ev.Stage)
		}
	}
	return resp
}
