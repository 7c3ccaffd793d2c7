package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"rpaetl/internal/domain"
)

// MockExecutionRepo is a mock implementation of port.ExecutionRepository.
type MockExecutionRepo struct {
	mock.Mock
}

func (m *MockExecutionRepo) Create(ctx context.Context, exec *domain.Execution, events []domain.ExecutionEvent) error {
	args := m.Called(ctx, exec, events)
	return args.Error(0)
}

func (m *MockExecutionRepo) GetByID(ctx context.Context, tenantID, executionID string) (*domain.Execution, error) {
	args := m.Called(ctx, tenantID, executionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Execution), args.Error(1)
}

func (m *MockExecutionRepo) ListEvents(ctx context.Context, executionID string) ([]domain.ExecutionEvent, error) {
	args := m.Called(ctx, executionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExecutionEvent), args.Error(1)
}

func (m *MockExecutionRepo) SetArchiveKey(ctx context.Context, executionID, key string) error {
	args := m.Called(ctx, executionID, key)
	return args.Error(0)
}

func (m *MockExecutionRepo) ClaimPendingDispatch(ctx context.Context, maxAttempts, limit int, staleAfter time.Duration) ([]domain.Execution, error) {
	args := m.Called(ctx, maxAttempts, limit, staleAfter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Execution), args.Error(1)
}

func (m *MockExecutionRepo) MarkDispatched(ctx context.Context, executionID string) error {
	args := m.Called(ctx, executionID)
	return args.Error(0)
}

func (m *MockExecutionRepo) MarkDispatchFailed(ctx context.Context, executionID, reason string, final bool) error {
	args := m.Called(ctx, executionID, reason, final)
	return args.Error(0)
}

func (m *MockExecutionRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
