package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rpaetl/internal/domain"
	"rpaetl/internal/metrics"
	"rpaetl/internal/port"
	"rpaetl/internal/service"
	"rpaetl/mocks"
)

func dispatchConfig() service.DispatchConfig {
	return service.DispatchConfig{
		PollInterval: 50 * time.Millisecond,
		BatchSize:    10,
		Concurrency:  2,
		MaxAttempts:  3,
		ClaimTimeout: time.Minute,
	}
}

func claimedExecution(kind domain.PipelineKind, attempts int) domain.Execution {
	return domain.Execution{
		ExecutionID:      "acme_000000000001",
		TenantID:         "acme",
		TraceID:          "trace-1",
		Pipeline:         kind,
		FinalStatus:      domain.PipelineSuccess,
		Envelope:         json.RawMessage(`{"event_type":"fiscal.extraction.completed"}`),
		DispatchStatus:   domain.DispatchInFlight,
		DispatchAttempts: attempts,
	}
}

func TestDispatchWorker_Deliver_Success(t *testing.T) {
	repo := new(mocks.MockExecutionRepo)
	pub := new(mocks.MockEnvelopePublisher)
	m := metrics.New(prometheus.NewRegistry())
	router := service.NewPublisherRouter().Route(domain.PipelineEnterprise, pub)
	worker := service.NewDispatchWorker(repo, router, m, dispatchConfig())

	exec := claimedExecution(domain.PipelineEnterprise, 1)
	pub.On("Name").Return("redis_stream")
	pub.On("Publish", mock.Anything, []byte(exec.Envelope), port.PublishMeta{
		ExecutionID: "acme_000000000001",
		TenantID:    "acme",
		TraceID:     "trace-1",
		Status:      domain.PipelineSuccess,
		Pipeline:    domain.PipelineEnterprise,
	}).Return(nil)
	repo.On("MarkDispatched", mock.Anything, "acme_000000000001").Return(nil)

	worker.Deliver(context.Background(), &exec)

	pub.AssertExpectations(t)
	repo.AssertExpectations(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispatchOutcome.WithLabelValues("redis_stream", service.OutcomeDispatched)))
}

func TestDispatchWorker_Deliver_FailureIsRetried(t *testing.T) {
	repo := new(mocks.MockExecutionRepo)
	pub := new(mocks.MockEnvelopePublisher)
	router := service.NewPublisherRouter().Route(domain.PipelineCustom, pub)
	worker := service.NewDispatchWorker(repo, router, nil, dispatchConfig())

	exec := claimedExecution(domain.PipelineCustom, 1)
	pub.On("Name").Return("webhook")
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("webhook: unexpected status 503"))
	repo.On("MarkDispatchFailed", mock.Anything, "acme_000000000001", "webhook: unexpected status 503", false).Return(nil)

	worker.Deliver(context.Background(), &exec)

	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "MarkDispatched", mock.Anything, mock.Anything)
}

func TestDispatchWorker_Deliver_LastAttemptIsFinal(t *testing.T) {
	repo := new(mocks.MockExecutionRepo)
	pub := new(mocks.MockEnvelopePublisher)
	m := metrics.New(prometheus.NewRegistry())
	router := service.NewPublisherRouter().Route(domain.PipelineCustom, pub)
	worker := service.NewDispatchWorker(repo, router, m, dispatchConfig())

	exec := claimedExecution(domain.PipelineCustom, 3)
	pub.On("Name").Return("webhook")
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("timeout"))
	repo.On("MarkDispatchFailed", mock.Anything, "acme_000000000001", "timeout", true).Return(nil)

	worker.Deliver(context.Background(), &exec)

	repo.AssertExpectations(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispatchOutcome.WithLabelValues("webhook", service.OutcomeFailed)))
}

func TestDispatchWorker_Deliver_UnroutedPipeline(t *testing.T) {
	repo := new(mocks.MockExecutionRepo)
	worker := service.NewDispatchWorker(repo, service.NewPublisherRouter(), nil, dispatchConfig())

	exec := claimedExecution(domain.PipelineCustom, 1)
	repo.On("MarkDispatchFailed", mock.Anything, "acme_000000000001",
		mock.MatchedBy(func(reason string) bool { return reason != "" }), true).Return(nil)

	worker.Deliver(context.Background(), &exec)

	repo.AssertExpectations(t)
}

func TestDispatchWorker_PollsAndDelivers(t *testing.T) {
	repo := new(mocks.MockExecutionRepo)
	pub := new(mocks.MockEnvelopePublisher)
	router := service.NewPublisherRouter().Route(domain.PipelineEnterprise, pub)
	cfg := dispatchConfig()
	worker := service.NewDispatchWorker(repo, router, nil, cfg)

	exec := claimedExecution(domain.PipelineEnterprise, 1)

	// First poll returns one execution, subsequent polls return empty
	repo.On("ClaimPendingDispatch", mock.Anything, cfg.MaxAttempts, mock.AnythingOfType("int"), cfg.ClaimTimeout).
		Return([]domain.Execution{exec}, nil).Once()
	repo.On("ClaimPendingDispatch", mock.Anything, cfg.MaxAttempts, mock.AnythingOfType("int"), cfg.ClaimTimeout).
		Return([]domain.Execution{}, nil).Maybe()
	pub.On("Name").Return("redis_stream").Maybe()
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	repo.On("MarkDispatched", mock.Anything, "acme_000000000001").Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	// Wait for at least one poll cycle
	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	pub.AssertNumberOfCalls(t, "Publish", 1)
	repo.AssertCalled(t, "MarkDispatched", mock.Anything, "acme_000000000001")
}

func TestDispatchWorker_RespectsBatchAndConcurrency(t *testing.T) {
	repo := new(mocks.MockExecutionRepo)
	cfg := dispatchConfig()
	cfg.Concurrency = 8
	cfg.BatchSize = 3
	worker := service.NewDispatchWorker(repo, service.NewPublisherRouter(), nil, cfg)

	repo.On("ClaimPendingDispatch", mock.Anything, cfg.MaxAttempts, 3, cfg.ClaimTimeout).
		Return([]domain.Execution{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()
	<-done

	repo.AssertCalled(t, "ClaimPendingDispatch", mock.Anything, cfg.MaxAttempts, 3, cfg.ClaimTimeout)
}

func TestDispatchWorker_ClaimErrorKeepsPolling(t *testing.T) {
	repo := new(mocks.MockExecutionRepo)
	cfg := dispatchConfig()
	worker := service.NewDispatchWorker(repo, service.NewPublisherRouter(), nil, cfg)

	repo.On("ClaimPendingDispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset")).Once()
	repo.On("ClaimPendingDispatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return([]domain.Execution{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	calls := 0
	for _, c := range repo.Calls {
		if c.Method == "ClaimPendingDispatch" {
			calls++
		}
	}
	assert.GreaterOrEqual(t, calls, 2)
}
