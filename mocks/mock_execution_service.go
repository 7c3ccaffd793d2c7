package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"rpaetl/internal/service"
)

// MockExecutionService is a mock implementation of service.ExecutionService.
type MockExecutionService struct {
	mock.Mock
}

func (m *MockExecutionService) GetAuditTrail(ctx context.Context, tenantID, executionID string) (*service.AuditTrail, error) {
	args := m.Called(ctx, tenantID, executionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuditTrail), args.Error(1)
}

func (m *MockExecutionService) GetEnvelope(ctx context.Context, tenantID, executionID string) (json.RawMessage, error) {
	args := m.Called(ctx, tenantID, executionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockExecutionService) ExportXLSX(ctx context.Context, tenantID, executionID string) ([]byte, error) {
	args := m.Called(ctx, tenantID, executionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockExecutionService) ExportCSV(ctx context.Context, tenantID, executionID string) ([]byte, error) {
	args := m.Called(ctx, tenantID, executionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
