package service

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rpaetl/internal/domain"
)

// toExecution flattens a finished run into its persisted form.
func toExecution(result *domain.PipelineResult, bc domain.BusinessContext, envelope []byte) (*domain.Execution, error) {
	payload, err := json.Marshal(result.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	issues := result.ValidationIssues
	if issues == nil {
		issues = []domain.ValidationIssue{}
	}
	issuesJSON, err := json.Marshal(issues)
	if err != nil {
		return nil, fmt.Errorf("marshal validation issues: %w", err)
	}

	source := bc.Source
	if result.Payload != nil && result.Payload.SourceFilename != "" {
		source = result.Payload.SourceFilename
	}

	return &domain.Execution{
		ExecutionID:      result.ExecutionID,
		TenantID:         result.TenantID,
		TraceID:          result.TraceID,
		Pipeline:         bc.Pipeline,
		Priority:         bc.Priority,
		Source:           source,
		StartTime:        result.StartTime,
		EndTime:          result.EndTime,
		FinalStatus:      result.Status,
		TrustScore:       result.TrustScore,
		InputHash:        result.RawMetadata.InputHashSHA256,
		FileSizeBytes:    result.RawMetadata.FileSizeBytes,
		PageCount:        result.RawMetadata.PageCount,
		Encoding:         result.RawMetadata.EncodingDetected,
		Payload:          payload,
		ValidationIssues: issuesJSON,
		Envelope:         envelope,
	}, nil
}

// toExecutionEvents numbers the audit trail in stage order.
func toExecutionEvents(executionID string, events []domain.OrchestratorEvent) ([]domain.ExecutionEvent, error) {
	out := make([]domain.ExecutionEvent, 0, len(events))
	for i, ev := range events {
		details, err := json.Marshal(ev.Details)
		if err != nil {
			return nil, fmt.Errorf("marshal %s event details: %w", ev.Stage, err)
		}
		out = append(out, domain.ExecutionEvent{
			EventID:     uuid.New(),
			ExecutionID: executionID,
			EventIndex:  i,
			Timestamp:   ev.Timestamp,
			Stage:       ev.Stage,
			Status:      ev.Status,
			Details:     details,
			ErrorPolicy: ev.ErrorPolicy,
		})
	}
	return out, nil
}

// resultFromExecution rebuilds a PipelineResult from stored rows for reporting.
func resultFromExecution(exec *domain.Execution, events []domain.ExecutionEvent) (*domain.PipelineResult, error) {
	result := &domain.PipelineResult{
		TraceID:     exec.TraceID,
		ExecutionID: exec.ExecutionID,
		TenantID:    exec.TenantID,
		StartTime:   exec.StartTime,
		EndTime:     exec.EndTime,
		Status:      exec.FinalStatus,
		TrustScore:  exec.TrustScore,
		Events:      make([]domain.OrchestratorEvent, 0, len(events)),
		RawMetadata: domain.RawMetadata{
			InputHashSHA256:  exec.InputHash,
			FileSizeBytes:    exec.FileSizeBytes,
			PageCount:        exec.PageCount,
			EncodingDetected: exec.Encoding,
		},
	}
	if len(exec.Payload) > 0 {
		if err := json.Unmarshal(exec.Payload, &result.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
	}
	if len(exec.ValidationIssues) > 0 {
		if err := json.Unmarshal(exec.ValidationIssues, &result.ValidationIssues); err != nil {
			return nil, fmt.Errorf("unmarshal validation issues: %w", err)
		}
	}
	for _, ev := range events {
		var details map[string]any
		if len(ev.Details) > 0 {
			if err := json.Unmarshal(ev.Details, &details); err != nil {
				return nil, fmt.Errorf("unmarshal event %d details: %w", ev.EventIndex, err)
			}
		}
		result.Events = append(result.Events, domain.OrchestratorEvent{
			Stage:       ev.Stage,
			Status:      ev.Status,
			Timestamp:   ev.Timestamp,
			Details:     details,
			ErrorPolicy: ev.ErrorPolicy,
		})
	}
	return result, nil
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}
