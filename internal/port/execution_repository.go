package port

import (
	"context"
	"time"

	"rpaetl/internal/domain"
)

// ExecutionRepository persists pipeline runs and their audit events.
type ExecutionRepository interface {
	// Create stores an execution and its events atomically.
	Create(ctx context.Context, exec *domain.Execution, events []domain.ExecutionEvent) error
	GetByID(ctx context.Context, tenantID, executionID string) (*domain.Execution, error)
	ListEvents(ctx context.Context, executionID string) ([]domain.ExecutionEvent, error)
	SetArchiveKey(ctx context.Context, executionID, key string) error

	// ClaimPendingDispatch marks up to limit pending executions as in flight and
	// returns them. Claims older than staleAfter are handed out again, or marked
	// failed when they already used the last attempt.
	ClaimPendingDispatch(ctx context.Context, maxAttempts, limit int, staleAfter time.Duration) ([]domain.Execution, error)
	MarkDispatched(ctx context.Context, executionID string) error
	// MarkDispatchFailed records a failed attempt. With final set the execution
	// stops being retried.
	MarkDispatchFailed(ctx context.Context, executionID, reason string, final bool) error

	Ping(ctx context.Context) error
}
