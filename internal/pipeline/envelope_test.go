package pipeline_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpaetl/internal/domain"
	"rpaetl/internal/pipeline"
)

func TestBuildEnvelope(t *testing.T) {
	start := time.Date(2024, 12, 15, 10, 0, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	result := &domain.PipelineResult{
		TenantID:  "acme",
		StartTime: start,
		EndTime:   &end,
		Status:    domain.PipelinePartial,
		Events: []domain.OrchestratorEvent{
			{Stage: domain.StageRead, Status: domain.EventSuccess, ErrorPolicy: domain.PolicyContinue},
		},
		Payload: &domain.ExtractionResult{Items: []domain.Item{}},
	}

	env := pipeline.BuildEnvelope(result)

	assert.NotEqual(t, uuid.Nil, env.EventID)
	assert.Equal(t, "fiscal.extraction.completed", env.EventType)
	assert.Equal(t, "acme", env.TenantID)
	assert.Equal(t, domain.PipelinePartial, env.Status)
	assert.Equal(t, int64(1500), env.Data.Metrics.TotalDurationMs)
	assert.Len(t, env.Data.AuditTrail, 1)
	assert.Same(t, result.Payload, env.Data.Payload)
	assert.NotEqual(t, pipeline.BuildEnvelope(result).EventID, env.EventID)
}

func TestBuildEnvelope_JSONShape(t *testing.T) {
	res := newOrchestrator().Process(context.Background(), pipeline.Input{Bytes: []byte(nfseDocument)}, testContext())
	raw, err := json.Marshal(pipeline.BuildEnvelope(res))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"event_id", "event_type", "timestamp", "tenant_id", "status", "data"} {
		assert.Contains(t, decoded, key)
	}
	data := decoded["data"].(map[string]any)
	assert.Contains(t, data, "payload")
	assert.Len(t, data["audit_trail"], 4)
	assert.Contains(t, data["metrics"], "total_duration_ms")
}

func TestToERPPayload(t *testing.T) {
	res := newOrchestrator().Process(context.Background(), pipeline.Input{Bytes: []byte(nfseDocument)}, testContext())
	require.NotNil(t, res.Payload)

	erp := pipeline.ToERPPayload(res.Payload)

	assert.Equal(t, pipeline.DocumentNFSe, erp.DocumentType)
	assert.Equal(t, "15/12/2024 10:30:00", *erp.IssueDate)
	assert.Equal(t, "04.252.011/0001-10", *erp.Supplier.TaxID)
	assert.Equal(t, "CLIENTE XYZ INDÚSTRIA S.A", *erp.Customer.Name)
	require.Len(t, erp.LineItems, 3)
	assert.Equal(t, "2000,00", *erp.LineItems[0].Amount)
	assert.Equal(t, "R$ 4.227,50", *erp.TotalAmount)
}

func TestToERPPayload_MissingParties(t *testing.T) {
	erp := pipeline.ToERPPayload(&domain.ExtractionResult{})
	assert.Nil(t, erp.Supplier.TaxID)
	assert.Nil(t, erp.Customer.Name)
	assert.NotNil(t, erp.LineItems)
	assert.Empty(t, erp.LineItems)
}

func TestDocumentType(t *testing.T) {
	tests := []struct {
		name string
		key  *string
		want string
	}{
		{"service_invoice", nil, "NFS-e"},
		{"nfe_key", strPtr("35241204252011000110550010000012345012345670"), "NF-e"},
		{"nfce_key", strPtr("35190211222333000181650010000000421000000425"), "NFC-e"},
		{"unparseable_key", strPtr("123"), "NF-e"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pipeline.DocumentType(&domain.ExtractionResult{AccessKey: tt.key}))
		})
	}
}

func TestToAnalyticsEvent(t *testing.T) {
	res := newOrchestrator().Process(context.Background(), pipeline.Input{Bytes: []byte(nfseDocument)}, testContext())

	ev := pipeline.ToAnalyticsEvent(res)

	assert.Equal(t, "invoice_processed", ev.EventType)
	assert.Equal(t, "15/12/2024 10:30:00", *ev.EventTime)
	assert.Equal(t, "04.252.011/0001-10", *ev.IssuerCNPJ)
	assert.Equal(t, "R$ 4.227,50", *ev.TotalValue)
	assert.Equal(t, 3, ev.ItemsCount)
	assert.False(t, ev.HasKey)
	assert.Equal(t, 1.0, ev.TrustScore)
	assert.Equal(t, "success", ev.FinalStatus)
}

func TestToAnalyticsEvent_AbortedRun(t *testing.T) {
	ev := pipeline.ToAnalyticsEvent(&domain.PipelineResult{Status: domain.PipelineError})
	assert.Equal(t, "invoice_processed", ev.EventType)
	assert.Nil(t, ev.IssuerCNPJ)
	assert.Zero(t, ev.ItemsCount)
	assert.Equal(t, "error", ev.FinalStatus)
}
