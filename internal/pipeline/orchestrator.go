package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"time"
	"unicode/utf8"

	"rpaetl/internal/domain"
	"rpaetl/internal/extractor"
	"rpaetl/internal/normalizer"
	"rpaetl/internal/port"
	"rpaetl/internal/validator"
)

// Input types recorded in raw metadata.
const (
	InputTypeFile  = "file"
	InputTypeBytes = "bytes"
)

const memorySource = "memory"

// Input is the document handed to Process: either a path on disk or bytes.
// Source overrides the name recorded for the document.
type Input struct {
	Path   string
	Bytes  []byte
	Source string
}

// NormalizeFunc cleans raw text; it fails only on input that is not text.
type NormalizeFunc func(text string) (string, error)

// ExtractFunc builds the structured payload from normalized text.
type ExtractFunc func(text, source string) *domain.ExtractionResult

// Orchestrator runs READ, NORMALIZE, PARSE and VALIDATE for one document
// and records an event per stage. It holds no per-run state.
type Orchestrator struct {
	reader    port.DocumentReader
	normalize NormalizeFunc
	extract   ExtractFunc
	engine    *validator.Engine
	now       func() time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithNormalizer replaces the NORMALIZE stage implementation.
func WithNormalizer(fn NormalizeFunc) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.normalize = fn
		}
	}
}

// WithExtractor replaces the PARSE stage implementation.
func WithExtractor(fn ExtractFunc) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.extract = fn
		}
	}
}

// WithEngine replaces the trust-scoring engine used by VALIDATE.
func WithEngine(e *validator.Engine) Option {
	return func(o *Orchestrator) {
		if e != nil {
			o.engine = e
		}
	}
}

// WithClock sets the time source for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// NewOrchestrator creates an orchestrator reading documents with reader.
func NewOrchestrator(reader port.DocumentReader, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		reader:    reader,
		normalize: normalizer.Normalize,
		extract:   extractor.Extract,
		engine:    validator.NewEngine(validator.DefaultRegistry()),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// stageError carries the stage that aborted the run.
type stageError struct {
	stage domain.Stage
	err   error
}

func (e *stageError) Error() string { return fmt.Sprintf("%s: %v", e.stage, e.err) }
func (e *stageError) Unwrap() error { return e.err }

// Process runs the pipeline. It never returns an error: failures show up as a
// FAILURE event with ABORT policy and status error. Missing context ids are
// replaced by placeholders.
func (o *Orchestrator) Process(ctx context.Context, in Input, bc domain.BusinessContext) *domain.PipelineResult {
	bc = bc.WithPlaceholders()
	result := &domain.PipelineResult{
		TraceID:          bc.TraceID,
		ExecutionID:      bc.ExecutionID,
		TenantID:         bc.TenantID,
		StartTime:        o.now().UTC(),
		Status:           domain.PipelineError,
		Events:           []domain.OrchestratorEvent{},
		ValidationIssues: []domain.ValidationIssue{},
	}
	defer func() {
		end := o.now().UTC()
		result.EndTime = &end
	}()

	if err := o.run(ctx, in, bc, result); err != nil {
		var se *stageError
		if errors.As(err, &se) {
			result.Events = append(result.Events, o.event(se.stage, domain.EventFailure, map[string]any{"error": se.err.Error()}))
			log.Printf("pipeline.Orchestrator: execution %s aborted at %s: %v", result.ExecutionID, se.stage, se.err)
		}
		result.Status = domain.PipelineError
		result.TrustScore = 0
	}
	return result
}

func (o *Orchestrator) run(ctx context.Context, in Input, bc domain.BusinessContext, result *domain.PipelineResult) error {
	// READ
	start := time.Now()
	data, inputType, source, err := loadInput(in)
	if err != nil {
		return &stageError{domain.StageRead, err}
	}
	read, err := guard(func() (*port.ReadResult, error) { return o.reader.Read(ctx, data) })
	if err != nil {
		return &stageError{domain.StageRead, err}
	}
	result.RawMetadata = domain.RawMetadata{
		InputHashSHA256:  hashBytes(data),
		InputType:        inputType,
		FileSizeBytes:    read.SizeBytes,
		PageCount:        read.PageCount,
		EncodingDetected: read.Encoding,
	}
	result.Events = append(result.Events, o.event(domain.StageRead, domain.EventSuccess, map[string]any{
		"duration_sec":      durationSec(start),
		"page_count":        read.PageCount,
		"extraction_method": read.Method,
		"input_source":      source,
	}))

	// NORMALIZE
	start = time.Now()
	normalized, err := guard(func() (string, error) { return o.normalize(read.Text) })
	if err != nil {
		return &stageError{domain.StageNormalize, err}
	}
	result.Events = append(result.Events, o.event(domain.StageNormalize, domain.EventSuccess, map[string]any{
		"duration_sec":                durationSec(start),
		"raw_text_hash_sha256":        hashBytes([]byte(read.Text)),
		"normalized_text_hash_sha256": hashBytes([]byte(normalized)),
		"reduction_ratio":             reductionRatio(read.Text, normalized),
	}))

	// PARSE
	start = time.Now()
	payload, err := o.parse(normalized, source)
	if err != nil {
		return &stageError{domain.StageParse, err}
	}
	payload.TenantID = bc.TenantID
	result.Payload = payload
	details := map[string]any{
		"duration_sec":    durationSec(start),
		"items_count":     len(payload.Items),
		"issuer_found":    payload.Issuer != nil,
		"recipient_found": payload.Recipient != nil,
		"total_value":     payload.Financials.Total,
	}
	if len(payload.FieldErrors) > 0 {
		details["field_errors"] = len(payload.FieldErrors)
	}
	result.Events = append(result.Events, o.event(domain.StageParse, domain.EventSuccess, details))

	// VALIDATE
	start = time.Now()
	ev, err := guard(func() (validator.Evaluation, error) { return o.engine.Evaluate(ctx, payload), nil })
	if err != nil {
		return &stageError{domain.StageValidate, err}
	}
	result.ValidationIssues = ev.Issues
	result.TrustScore = ev.TrustScore
	result.Status = ev.Status
	result.Events = append(result.Events, o.event(domain.StageValidate, domain.EventSuccess, map[string]any{
		"duration_sec": durationSec(start),
		"issues_count": len(ev.Issues),
		"trust_score":  ev.TrustScore,
		"status":       string(ev.Status),
	}))
	return nil
}

// parse shields the run from a panic that escapes per-field isolation.
func (o *Orchestrator) parse(text, source string) (*domain.ExtractionResult, error) {
	payload, err := guard(func() (*domain.ExtractionResult, error) { return o.extract(text, source), nil })
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	if payload == nil {
		return nil, errors.New("extraction returned no payload")
	}
	return payload, nil
}

// guard runs one stage call and reports a panic as an error.
func guard[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (o *Orchestrator) event(stage domain.Stage, status domain.EventStatus, details map[string]any) domain.OrchestratorEvent {
	policy := domain.PolicyContinue
	if status == domain.EventFailure {
		policy = domain.PolicyAbort
	}
	return domain.OrchestratorEvent{
		Stage:       stage,
		Status:      status,
		Timestamp:   o.now().UTC(),
		Details:     details,
		ErrorPolicy: policy,
	}
}

func loadInput(in Input) (data []byte, inputType, source string, err error) {
	if in.Path != "" {
		data, err = os.ReadFile(in.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, "", "", fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, in.Path)
			}
			return nil, "", "", fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
		}
		inputType, source = InputTypeFile, in.Path
	} else {
		data, inputType, source = in.Bytes, InputTypeBytes, memorySource
	}
	if in.Source != "" {
		source = in.Source
	}
	if len(data) == 0 {
		return nil, "", "", fmt.Errorf("%w: empty input", domain.ErrUnreadableDocument)
	}
	return data, inputType, source, nil
}

func hashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func reductionRatio(raw, normalized string) float64 {
	rawLen := utf8.RuneCountInString(raw)
	if rawLen == 0 {
		return 0
	}
	return round(1-float64(utf8.RuneCountInString(normalized))/float64(rawLen), 2)
}

func durationSec(start time.Time) float64 {
	return round(time.Since(start).Seconds(), 4)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
