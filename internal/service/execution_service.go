package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"rpaetl/internal/domain"
	"rpaetl/internal/export"
	"rpaetl/internal/port"
)

// AuditTrail is a stored execution with its ordered events and issues.
type AuditTrail struct {
	Execution *domain.Execution
	Events    []domain.ExecutionEvent
	Issues    []domain.ValidationIssue
}

// ExecutionService defines read access to stored executions.
type ExecutionService interface {
	GetAuditTrail(ctx context.Context, tenantID, executionID string) (*AuditTrail, error)
	GetEnvelope(ctx context.Context, tenantID, executionID string) (json.RawMessage, error)
	ExportXLSX(ctx context.Context, tenantID, executionID string) ([]byte, error)
	ExportCSV(ctx context.Context, tenantID, executionID string) ([]byte, error)
}

type executionService struct {
	execRepo port.ExecutionRepository
}

// NewExecutionService creates an ExecutionService.
func NewExecutionService(execRepo port.ExecutionRepository) ExecutionService {
	return &executionService{execRepo: execRepo}
}

func (s *executionService) GetAuditTrail(ctx context.Context, tenantID, executionID string) (*AuditTrail, error) {
	exec, err := s.execRepo.GetByID(ctx, tenantID, executionID)
	if err != nil {
		return nil, err
	}
	events, err := s.execRepo.ListEvents(ctx, executionID)
	if err != nil {
		return nil, err
	}
	issues := []domain.ValidationIssue{}
	if len(exec.ValidationIssues) > 0 {
		if err := json.Unmarshal(exec.ValidationIssues, &issues); err != nil {
			return nil, fmt.Errorf("executionService.GetAuditTrail: %w", err)
		}
	}
	return &AuditTrail{Execution: exec, Events: events, Issues: issues}, nil
}

func (s *executionService) GetEnvelope(ctx context.Context, tenantID, executionID string) (json.RawMessage, error) {
	exec, err := s.execRepo.GetByID(ctx, tenantID, executionID)
	if err != nil {
		return nil, err
	}
	return exec.Envelope, nil
}

func (s *executionService) ExportXLSX(ctx context.Context, tenantID, executionID string) ([]byte, error) {
	result, err := s.loadResult(ctx, tenantID, executionID)
	if err != nil {
		return nil, err
	}
	return export.XLSX([]*domain.PipelineResult{result})
}

func (s *executionService) ExportCSV(ctx context.Context, tenantID, executionID string) ([]byte, error) {
	result, err := s.loadResult(ctx, tenantID, executionID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(export.BOM)
	w := export.NewCSVWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		return nil, fmt.Errorf("executionService.ExportCSV: %w", err)
	}
	if err := w.WriteResults([]*domain.PipelineResult{result}); err != nil {
		return nil, fmt.Errorf("executionService.ExportCSV: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("executionService.ExportCSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *executionService) loadResult(ctx context.Context, tenantID, executionID string) (*domain.PipelineResult, error) {
	exec, err := s.execRepo.GetByID(ctx, tenantID, executionID)
	if err != nil {
		return nil, err
	}
	events, err := s.execRepo.ListEvents(ctx, executionID)
	if err != nil {
		return nil, err
	}
	result, err := resultFromExecution(exec, events)
	if err != nil {
		return nil, fmt.Errorf("executionService.loadResult: %w", err)
	}
	return result, nil
}
