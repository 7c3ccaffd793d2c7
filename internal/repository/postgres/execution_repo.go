package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"rpaetl/internal/domain"
	"rpaetl/internal/port"
)

type executionRepo struct {
	db *sqlx.DB
}

// NewExecutionRepo creates a new PostgreSQL-backed ExecutionRepository.
func NewExecutionRepo(db *sqlx.DB) port.ExecutionRepository {
	return &executionRepo{db: db}
}

func (r *executionRepo) Create(ctx context.Context, exec *domain.Execution, events []domain.ExecutionEvent) error {
	exec.CreatedAt = time.Now().UTC()

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `INSERT INTO executions (
			execution_id, tenant_id, trace_id, pipeline, priority, source,
			start_time, end_time, final_status, trust_score,
			input_hash_sha256, file_size_bytes, page_count, encoding_detected,
			payload, validation_issues, envelope, archive_key,
			dispatch_status, dispatch_attempts, created_at
		) VALUES (
			:execution_id, :tenant_id, :trace_id, :pipeline, :priority, :source,
			:start_time, :end_time, :final_status, :trust_score,
			:input_hash_sha256, :file_size_bytes, :page_count, :encoding_detected,
			:payload, :validation_issues, :envelope, :archive_key,
			:dispatch_status, :dispatch_attempts, :created_at
		)`, exec)
		if err != nil {
			return err
		}
		for i := range events {
			_, err := tx.NamedExecContext(ctx, `INSERT INTO execution_events (
				event_id, execution_id, event_index, timestamp, stage, status, details, error_policy
			) VALUES (
				:event_id, :execution_id, :event_index, :timestamp, :stage, :status, :details, :error_policy
			)`, &events[i])
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("executionRepo.Create: %w", err)
	}
	return nil
}

func (r *executionRepo) GetByID(ctx context.Context, tenantID, executionID string) (*domain.Execution, error) {
	var exec domain.Execution
	err := r.db.GetContext(ctx, &exec,
		"SELECT * FROM executions WHERE execution_id = $1 AND tenant_id = $2", executionID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExecutionNotFound
		}
		return nil, fmt.Errorf("executionRepo.GetByID: %w", err)
	}
	return &exec, nil
}

func (r *executionRepo) ListEvents(ctx context.Context, executionID string) ([]domain.ExecutionEvent, error) {
	events := []domain.ExecutionEvent{}
	err := r.db.SelectContext(ctx, &events,
		"SELECT * FROM execution_events WHERE execution_id = $1 ORDER BY event_index", executionID)
	if err != nil {
		return nil, fmt.Errorf("executionRepo.ListEvents: %w", err)
	}
	return events, nil
}

func (r *executionRepo) SetArchiveKey(ctx context.Context, executionID, key string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE executions SET archive_key = $1 WHERE execution_id = $2", key, executionID)
	if err != nil {
		return fmt.Errorf("executionRepo.SetArchiveKey: %w", err)
	}
	return expectOneRow(res, "executionRepo.SetArchiveKey")
}

func (r *executionRepo) ClaimPendingDispatch(ctx context.Context, maxAttempts, limit int, staleAfter time.Duration) ([]domain.Execution, error) {
	execs := []domain.Execution{}
	err := r.db.SelectContext(ctx, &execs, `
		WITH expired AS (
			UPDATE executions
			SET dispatch_status = 'failed',
			    dispatch_error = 'claim expired on final attempt',
			    dispatch_claimed_at = NULL
			WHERE dispatch_status = 'dispatching'
			  AND dispatch_attempts >= $1
			  AND dispatch_claimed_at < NOW() - make_interval(secs => $3)
		)
		UPDATE executions
		SET dispatch_status = 'dispatching',
		    dispatch_attempts = dispatch_attempts + 1,
		    dispatch_claimed_at = NOW()
		WHERE execution_id IN (
			SELECT execution_id FROM executions
			WHERE dispatch_attempts < $1
			  AND (dispatch_status = 'pending'
			       OR (dispatch_status = 'dispatching' AND dispatch_claimed_at < NOW() - make_interval(secs => $3)))
			ORDER BY created_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`,
		maxAttempts, limit, staleAfter.Seconds())
	if err != nil {
		return nil, fmt.Errorf("executionRepo.ClaimPendingDispatch: %w", err)
	}
	return execs, nil
}

func (r *executionRepo) MarkDispatched(ctx context.Context, executionID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE executions
		SET dispatch_status = 'dispatched', dispatch_error = NULL, dispatched_at = NOW()
		WHERE execution_id = $1`, executionID)
	if err != nil {
		return fmt.Errorf("executionRepo.MarkDispatched: %w", err)
	}
	return expectOneRow(res, "executionRepo.MarkDispatched")
}

func (r *executionRepo) MarkDispatchFailed(ctx context.Context, executionID, reason string, final bool) error {
	status := domain.DispatchPending
	if final {
		status = domain.DispatchFailed
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE executions
		SET dispatch_status = $1, dispatch_error = $2, dispatch_claimed_at = NULL
		WHERE execution_id = $3`, status, reason, executionID)
	if err != nil {
		return fmt.Errorf("executionRepo.MarkDispatchFailed: %w", err)
	}
	return expectOneRow(res, "executionRepo.MarkDispatchFailed")
}

func (r *executionRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func expectOneRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return domain.ErrExecutionNotFound
	}
	return nil
}
