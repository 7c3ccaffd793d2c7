package service_test

import (
	"context"
	"time"

	"rpaetl/internal/domain"
	"rpaetl/internal/pipeline"
)

var testStart = time.Date(2024, 12, 15, 13, 30, 0, 0, time.UTC)

// stubProcessor returns a canned result carrying the caller's identifiers.
type stubProcessor struct {
	status domain.PipelineStatus
	score  float64
	calls  int
	input  pipeline.Input
	bc     domain.BusinessContext
}

func (p *stubProcessor) Process(_ context.Context, in pipeline.Input, bc domain.BusinessContext) *domain.PipelineResult {
	p.calls++
	p.input = in
	p.bc = bc
	end := testStart.Add(250 * time.Millisecond)
	total := "R$ 1.500,00"
	return &domain.PipelineResult{
		TraceID:     bc.TraceID,
		ExecutionID: bc.ExecutionID,
		TenantID:    bc.TenantID,
		StartTime:   testStart,
		EndTime:     &end,
		Status:      p.status,
		TrustScore:  p.score,
		Events: []domain.OrchestratorEvent{
			{Stage: domain.StageRead, Status: domain.EventSuccess, Timestamp: testStart, ErrorPolicy: domain.PolicyContinue, Details: map[string]any{"duration_sec": 0.01}},
			{Stage: domain.StageNormalize, Status: domain.EventSuccess, Timestamp: testStart, ErrorPolicy: domain.PolicyContinue, Details: map[string]any{"duration_sec": 0.001}},
			{Stage: domain.StageParse, Status: domain.EventSuccess, Timestamp: testStart, ErrorPolicy: domain.PolicyContinue, Details: map[string]any{"duration_sec": 0.002}},
			{Stage: domain.StageValidate, Status: domain.EventSuccess, Timestamp: end, ErrorPolicy: domain.PolicyContinue, Details: map[string]any{"duration_sec": 0.001}},
		},
		ValidationIssues: []domain.ValidationIssue{},
		Payload: &domain.ExtractionResult{
			Items:          []domain.Item{},
			Financials:     domain.Financials{Total: &total},
			TenantID:       bc.TenantID,
			SourceFilename: in.Source,
		},
		RawMetadata: domain.RawMetadata{InputHashSHA256: "deadbeef", InputType: pipeline.InputTypeBytes, FileSizeBytes: int64(len(in.Bytes))},
	}
}

func testContext() domain.BusinessContext {
	return domain.BusinessContext{
		TenantID:    "acme",
		TraceID:     "trace-1",
		ExecutionID: "acme_000000000001",
	}
}
