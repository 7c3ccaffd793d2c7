package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rpaetl/internal/port"
)

// MockEnvelopePublisher is a mock implementation of port.EnvelopePublisher.
type MockEnvelopePublisher struct {
	mock.Mock
}

func (m *MockEnvelopePublisher) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockEnvelopePublisher) Publish(ctx context.Context, env []byte, meta port.PublishMeta) error {
	args := m.Called(ctx, env, meta)
	return args.Error(0)
}
