// Package redisstream publishes envelopes of the enterprise pipeline to a
// Redis stream consumed by the ERP integration.
package redisstream

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"rpaetl/internal/domain"
	"rpaetl/internal/port"
)

// Stream entry fields.
const (
	FieldEnvelope    = "envelope"
	FieldExecutionID = "execution_id"
	FieldTenantID    = "tenant_id"
	FieldTraceID     = "trace_id"
	FieldStatus      = "status"
	FieldEventType   = "event_type"
)

// Publisher appends envelopes to a capped stream with XADD.
type Publisher struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

// NewPublisher creates a stream publisher. maxLen <= 0 leaves the stream uncapped.
func NewPublisher(client redis.Cmdable, stream string, maxLen int64) *Publisher {
	return &Publisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *Publisher) Name() string { return "redis_stream" }

// Publish adds one entry carrying the raw envelope plus routing fields.
func (p *Publisher) Publish(ctx context.Context, env []byte, meta port.PublishMeta) error {
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			FieldEnvelope:    string(env),
			FieldExecutionID: meta.ExecutionID,
			FieldTenantID:    meta.TenantID,
			FieldTraceID:     meta.TraceID,
			FieldStatus:      string(meta.Status),
			FieldEventType:   domain.EnvelopeEventType,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("redisstream.Publish: %w", err)
	}
	return nil
}
