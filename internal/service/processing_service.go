package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"rpaetl/internal/domain"
	"rpaetl/internal/metrics"
	"rpaetl/internal/pipeline"
	"rpaetl/internal/port"
	"rpaetl/internal/storage/s3"
)

// Processor runs the extraction pipeline for one document.
type Processor interface {
	Process(ctx context.Context, in pipeline.Input, bc domain.BusinessContext) *domain.PipelineResult
}

// ProcessInput is the DTO for processing an uploaded document.
type ProcessInput struct {
	Filename string
	Data     []byte
	Context  domain.BusinessContext
}

// ProcessOutput is the outcome of a processed document.
type ProcessOutput struct {
	Result         *domain.PipelineResult
	Envelope       domain.Envelope
	Context        domain.BusinessContext
	Persisted      bool
	ArchiveKey     string
	DispatchStatus domain.DispatchStatus
}

// ArchiveConfig locates archived envelopes in object storage.
type ArchiveConfig struct {
	Bucket string
	Prefix string
}

// ProcessingService defines the document processing contract.
type ProcessingService interface {
	Process(ctx context.Context, input *ProcessInput) (*ProcessOutput, error)
}

type processingService struct {
	processor Processor
	execRepo  port.ExecutionRepository
	storage   port.ObjectStorage
	archive   ArchiveConfig
	router    *PublisherRouter
	metrics   *metrics.Metrics
}

// ProcessingOption customizes the processing service.
type ProcessingOption func(*processingService)

// WithArchive stores every persisted envelope in object storage.
func WithArchive(storage port.ObjectStorage, cfg ArchiveConfig) ProcessingOption {
	return func(s *processingService) {
		s.storage = storage
		s.archive = cfg
	}
}

// WithPublishers marks executions of routed pipelines as pending dispatch.
func WithPublishers(router *PublisherRouter) ProcessingOption {
	return func(s *processingService) {
		s.router = router
	}
}

// WithMetrics records run outcomes.
func WithMetrics(m *metrics.Metrics) ProcessingOption {
	return func(s *processingService) {
		s.metrics = m
	}
}

// NewProcessingService creates a ProcessingService. A nil execRepo disables persistence.
func NewProcessingService(processor Processor, execRepo port.ExecutionRepository, opts ...ProcessingOption) ProcessingService {
	s := &processingService{
		processor: processor,
		execRepo:  execRepo,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *processingService) Process(ctx context.Context, input *ProcessInput) (*ProcessOutput, error) {
	bc := input.Context
	if err := bc.Validate(); err != nil {
		return nil, err
	}
	bc.Complete()
	if bc.Source == "" {
		bc.Source = input.Filename
	}

	result := s.processor.Process(ctx, pipeline.Input{Bytes: input.Data, Source: input.Filename}, bc)
	s.record(result, bc)

	env := pipeline.BuildEnvelope(result)
	envJSON, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("processingService.Process: marshal envelope: %w", err)
	}

	out := &ProcessOutput{
		Result:         result,
		Envelope:       env,
		Context:        bc,
		DispatchStatus: domain.DispatchSkipped,
	}
	if bc.DryRun || s.execRepo == nil {
		log.Printf("processingService.Process: execution %s not persisted (dry_run=%t)", result.ExecutionID, bc.DryRun)
		return out, nil
	}

	exec, err := toExecution(result, bc, envJSON)
	if err != nil {
		return nil, fmt.Errorf("processingService.Process: %w", err)
	}
	events, err := toExecutionEvents(exec.ExecutionID, result.Events)
	if err != nil {
		return nil, fmt.Errorf("processingService.Process: %w", err)
	}
	if s.router.Has(bc.Pipeline) {
		exec.DispatchStatus = domain.DispatchPending
	} else {
		exec.DispatchStatus = domain.DispatchSkipped
	}

	if err := s.execRepo.Create(ctx, exec, events); err != nil {
		return nil, fmt.Errorf("processingService.Process: %w", err)
	}
	out.Persisted = true
	out.DispatchStatus = exec.DispatchStatus

	log.Printf("processingService.Process: execution %s tenant=%s status=%s trust=%.4f dispatch=%s",
		exec.ExecutionID, exec.TenantID, exec.FinalStatus, exec.TrustScore, exec.DispatchStatus)

	if key, err := s.archiveEnvelope(ctx, exec, envJSON); err != nil {
		// The execution row already holds the envelope; the archive copy is best effort.
		log.Printf("processingService.Process: archive failed for %s: %v", exec.ExecutionID, err)
	} else {
		out.ArchiveKey = key
	}

	return out, nil
}

func (s *processingService) archiveEnvelope(ctx context.Context, exec *domain.Execution, envJSON []byte) (string, error) {
	if s.storage == nil {
		return "", nil
	}
	key := s3.EnvelopeKey(s.archive.Prefix, exec.TenantID, exec.ExecutionID, exec.StartTime)
	_, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.archive.Bucket,
		Key:         key,
		Body:        bytes.NewReader(envJSON),
		ContentType: "application/json",
		Metadata: map[string]string{
			"execution-id": exec.ExecutionID,
			"tenant-id":    exec.TenantID,
			"trace-id":     exec.TraceID,
			"input-sha256": exec.InputHash,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrArchiveFailed, err)
	}
	if err := s.execRepo.SetArchiveKey(ctx, exec.ExecutionID, key); err != nil {
		return "", err
	}
	return key, nil
}

func (s *processingService) record(result *domain.PipelineResult, bc domain.BusinessContext) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementProcessed(string(result.Status), string(bc.Pipeline))
	s.metrics.ObserveTrustScore(result.TrustScore)
	for _, ev := range result.Events {
		if ev.Status == domain.EventFailure {
			s.metrics.IncrementStageFailure(string(ev.Stage))
			continue
		}
		if sec, ok := ev.Details["duration_sec"].(float64); ok {
			s.metrics.ObserveStage(string(ev.Stage), secondsToDuration(sec))
		}
	}
}
