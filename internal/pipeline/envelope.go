package pipeline

import (
	"time"

	"github.com/google/uuid"

	"rpaetl/internal/domain"
)

// BuildEnvelope wraps a finished run in the event handed to downstream consumers.
func BuildEnvelope(result *domain.PipelineResult) domain.Envelope {
	return domain.Envelope{
		EventID:   uuid.New(),
		EventType: domain.EnvelopeEventType,
		Timestamp: time.Now().UTC(),
		TenantID:  result.TenantID,
		Status:    result.Status,
		Data: domain.EnvelopeData{
			Payload:    result.Payload,
			AuditTrail: result.Events,
			Metrics: domain.EnvelopeMetrics{
				TotalDurationMs: result.TotalDuration().Milliseconds(),
			},
		},
	}
}
