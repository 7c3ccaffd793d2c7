package port

import (
	"context"

	"rpaetl/internal/domain"
)

// EnvelopePublisher delivers an output envelope to a downstream consumer.
type EnvelopePublisher interface {
	Name() string
	Publish(ctx context.Context, env []byte, meta PublishMeta) error
}

// PublishMeta carries routing facts about the envelope being published.
type PublishMeta struct {
	ExecutionID string
	TenantID    string
	TraceID     string
	Status      domain.PipelineStatus
	Pipeline    domain.PipelineKind
}
