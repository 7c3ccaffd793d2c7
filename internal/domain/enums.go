package domain

// FileType represents the allowed input document types.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeTXT FileType = "txt"
)

// AllowedContentTypes maps MIME content types to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"text/plain":      FileTypeTXT,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
	"txt": FileTypeTXT,
}

// Stage is one step of the extraction pipeline.
type Stage string

const (
	StageRead      Stage = "READ"
	StageNormalize Stage = "NORMALIZE"
	StageParse     Stage = "PARSE"
	StageValidate  Stage = "VALIDATE"
)

// Stages lists the pipeline stages in execution order.
var Stages = []Stage{StageRead, StageNormalize, StageParse, StageValidate}

// EventStatus is the outcome of a single stage.
type EventStatus string

const (
	EventSuccess EventStatus = "SUCCESS"
	EventFailure EventStatus = "FAILURE"
)

// ErrorPolicy tells consumers of an event whether the pipeline went on.
type ErrorPolicy string

const (
	PolicyAbort    ErrorPolicy = "ABORT"
	PolicyContinue ErrorPolicy = "CONTINUE"
)

// PipelineStatus is the final tri-state outcome of a run.
type PipelineStatus string

const (
	PipelineSuccess PipelineStatus = "success"
	PipelinePartial PipelineStatus = "partial"
	PipelineError   PipelineStatus = "error"
)

// Severity of a validation issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// BlockLabel names a semantic region of an invoice.
type BlockLabel string

const (
	BlockHeader     BlockLabel = "HEADER"
	BlockIssuer     BlockLabel = "ISSUER"
	BlockRecipient  BlockLabel = "RECIPIENT"
	BlockItems      BlockLabel = "ITEMS"
	BlockFinancials BlockLabel = "FINANCIALS"
)

// BlockLabels lists every label a segmentation always carries.
var BlockLabels = []BlockLabel{BlockHeader, BlockIssuer, BlockRecipient, BlockItems, BlockFinancials}

// PipelineKind selects the downstream route for a processed document.
type PipelineKind string

const (
	PipelineEnterprise PipelineKind = "enterprise"
	PipelineCustom     PipelineKind = "custom"
)

// Priority is the caller-declared processing priority.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// DispatchStatus tracks delivery of an envelope to downstream consumers.
type DispatchStatus string

const (
	DispatchPending    DispatchStatus = "pending"
	DispatchInFlight   DispatchStatus = "dispatching"
	DispatchDispatched DispatchStatus = "dispatched"
	DispatchFailed     DispatchStatus = "failed"
	DispatchSkipped    DispatchStatus = "skipped"
)

// EnvelopeEventType is the event type of every output envelope.
const EnvelopeEventType = "fiscal.extraction.completed"
