package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Party is an issuer or recipient identity found inside one invoice block.
type Party struct {
	Name                  *string `json:"name"`
	TaxID                 *string `json:"tax_id"`
	Address               *string `json:"address,omitempty"`
	MunicipalRegistration *string `json:"municipal_registration,omitempty"`
	Email                 *string `json:"email,omitempty"`
	Phone                 *string `json:"phone,omitempty"`
}

// Item is one line-level entry of the itemization block.
type Item struct {
	Description string  `json:"description"`
	UnitValue   *string `json:"unit_value"`
	Raw         string  `json:"raw"`
}

// Financials holds the totals of the document.
type Financials struct {
	Total         *string           `json:"total"`
	Taxes         map[string]string `json:"taxes,omitempty"`
	PaymentMethod *string           `json:"payment_method,omitempty"`
}

// FieldError records an extractor that failed internally; the field itself is left null.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ExtractionResult is the structured invoice produced by the PARSE stage.
type ExtractionResult struct {
	EmissionDate   *string      `json:"emission_date"`
	CompetenceDate *string      `json:"competence_date"`
	AccessKey      *string      `json:"access_key"`
	Issuer         *Party       `json:"issuer"`
	Recipient      *Party       `json:"recipient"`
	Items          []Item       `json:"items"`
	Financials     Financials   `json:"financials"`
	RawText        string       `json:"raw_text"`
	TenantID       string       `json:"tenant_id,omitempty"`
	SourceFilename string       `json:"source_filename,omitempty"`
	FieldErrors    []FieldError `json:"field_errors,omitempty"`
}

// ValidationIssue is a business-rule finding raised during VALIDATE.
type ValidationIssue struct {
	Code     string   `json:"code"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// OrchestratorEvent is the immutable record of one stage outcome.
type OrchestratorEvent struct {
	Stage       Stage          `json:"stage"`
	Status      EventStatus    `json:"status"`
	Timestamp   time.Time      `json:"timestamp"`
	Details     map[string]any `json:"details"`
	ErrorPolicy ErrorPolicy    `json:"error_policy"`
}

// RawMetadata describes the input bytes without carrying any of their content.
type RawMetadata struct {
	InputHashSHA256  string `json:"input_hash_sha256,omitempty"`
	InputType        string `json:"input_type,omitempty"`
	FileSizeBytes    int64  `json:"file_size_bytes,omitempty"`
	PageCount        int    `json:"page_count,omitempty"`
	EncodingDetected string `json:"encoding_detected,omitempty"`
}

// PipelineResult is the top-level outcome of one pipeline run.
type PipelineResult struct {
	TraceID          string              `json:"trace_id"`
	ExecutionID      string              `json:"execution_id"`
	TenantID         string              `json:"tenant_id"`
	StartTime        time.Time           `json:"start_time"`
	EndTime          *time.Time          `json:"end_time"`
	Status           PipelineStatus      `json:"status"`
	TrustScore       float64             `json:"trust_score"`
	Events           []OrchestratorEvent `json:"events"`
	ValidationIssues []ValidationIssue   `json:"validation_issues"`
	Payload          *ExtractionResult   `json:"payload"`
	RawMetadata      RawMetadata         `json:"raw_metadata"`
}

// TotalDuration is the wall time between start and end of the run.
func (r *PipelineResult) TotalDuration() time.Duration {
	if r.EndTime == nil {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// BusinessContext carries caller metadata for a run. It never holds document bytes.
type BusinessContext struct {
	TenantID    string       `json:"tenant_id"`
	TraceID     string       `json:"trace_id,omitempty"`
	ExecutionID string       `json:"execution_id,omitempty"`
	Pipeline    PipelineKind `json:"pipeline,omitempty"`
	DryRun      bool         `json:"dry_run"`
	Priority    Priority     `json:"priority,omitempty"`
	Source      string       `json:"source,omitempty"`
}

// Envelope is the message handed to downstream consumers.
type Envelope struct {
	EventID   uuid.UUID      `json:"event_id"`
	EventType string         `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	TenantID  string         `json:"tenant_id"`
	Status    PipelineStatus `json:"status"`
	Data      EnvelopeData   `json:"data"`
}

// EnvelopeData is the body of an Envelope.
type EnvelopeData struct {
	Payload    *ExtractionResult   `json:"payload"`
	AuditTrail []OrchestratorEvent `json:"audit_trail"`
	Metrics    EnvelopeMetrics     `json:"metrics"`
}

// EnvelopeMetrics holds run-level measurements.
type EnvelopeMetrics struct {
	TotalDurationMs int64 `json:"total_duration_ms"`
}

// Execution is the persisted form of a pipeline run.
type Execution struct {
	ExecutionID      string          `db:"execution_id" json:"execution_id"`
	TenantID         string          `db:"tenant_id" json:"tenant_id"`
	TraceID          string          `db:"trace_id" json:"trace_id"`
	Pipeline         PipelineKind    `db:"pipeline" json:"pipeline"`
	Priority         Priority        `db:"priority" json:"priority"`
	Source           string          `db:"source" json:"source"`
	StartTime        time.Time       `db:"start_time" json:"start_time"`
	EndTime          *time.Time      `db:"end_time" json:"end_time"`
	FinalStatus      PipelineStatus  `db:"final_status" json:"final_status"`
	TrustScore       float64         `db:"trust_score" json:"trust_score"`
	InputHash        string          `db:"input_hash_sha256" json:"input_hash_sha256"`
	FileSizeBytes    int64           `db:"file_size_bytes" json:"file_size_bytes"`
	PageCount        int             `db:"page_count" json:"page_count"`
	Encoding         string          `db:"encoding_detected" json:"encoding_detected"`
	Payload          json.RawMessage `db:"payload" json:"payload"`
	ValidationIssues json.RawMessage `db:"validation_issues" json:"validation_issues"`
	Envelope         json.RawMessage `db:"envelope" json:"envelope"`
	ArchiveKey       *string         `db:"archive_key" json:"archive_key"`
	DispatchStatus   DispatchStatus  `db:"dispatch_status" json:"dispatch_status"`
	DispatchAttempts int             `db:"dispatch_attempts" json:"dispatch_attempts"`
	DispatchError    *string         `db:"dispatch_error" json:"dispatch_error"`
	DispatchClaimed  *time.Time      `db:"dispatch_claimed_at" json:"-"`
	DispatchedAt     *time.Time      `db:"dispatched_at" json:"dispatched_at"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// ExecutionEvent is one persisted audit event of an execution.
type ExecutionEvent struct {
	EventID     uuid.UUID       `db:"event_id" json:"event_id"`
	ExecutionID string          `db:"execution_id" json:"execution_id"`
	EventIndex  int             `db:"event_index" json:"event_index"`
	Timestamp   time.Time       `db:"timestamp" json:"timestamp"`
	Stage       Stage           `db:"stage" json:"stage"`
	Status      EventStatus     `db:"status" json:"status"`
	Details     json.RawMessage `db:"details" json:"details"`
	ErrorPolicy ErrorPolicy     `db:"error_policy" json:"error_policy"`
}
