package service

import (
	"context"
	"log"
	"sync"
	"time"

	"rpaetl/internal/domain"
	"rpaetl/internal/metrics"
	"rpaetl/internal/port"
)

// Dispatch outcomes recorded in metrics.
const (
	OutcomeDispatched = "dispatched"
	OutcomeRetry      = "retry"
	OutcomeFailed     = "failed"
)

// DispatchConfig holds settings for the dispatch worker.
type DispatchConfig struct {
	PollInterval time.Duration
	BatchSize    int
	Concurrency  int
	MaxAttempts  int
	// ClaimTimeout is how long a claim may stay in flight before another poll takes it over.
	ClaimTimeout time.Duration
}

// DispatchWorker polls for executions pending dispatch and publishes their envelopes.
type DispatchWorker struct {
	execRepo port.ExecutionRepository
	router   *PublisherRouter
	metrics  *metrics.Metrics
	cfg      DispatchConfig
	wg       sync.WaitGroup
}

// NewDispatchWorker creates a new DispatchWorker.
func NewDispatchWorker(execRepo port.ExecutionRepository, router *PublisherRouter, m *metrics.Metrics, cfg DispatchConfig) *DispatchWorker {
	if cfg.ClaimTimeout <= 0 {
		cfg.ClaimTimeout = 5 * time.Minute
	}
	return &DispatchWorker{
		execRepo: execRepo,
		router:   router,
		metrics:  m,
		cfg:      cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight deliveries have finished.
func (w *DispatchWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("dispatchWorker: started (poll=%s, batch=%d, concurrency=%d, maxAttempts=%d)",
		w.cfg.PollInterval, w.cfg.BatchSize, w.cfg.Concurrency, w.cfg.MaxAttempts)

	for {
		select {
		case <-ctx.Done():
			log.Printf("dispatchWorker: shutting down, waiting for in-flight deliveries...")
			w.wg.Wait()
			log.Printf("dispatchWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}
			if w.cfg.BatchSize > 0 && available > w.cfg.BatchSize {
				available = w.cfg.BatchSize
			}

			execs, err := w.execRepo.ClaimPendingDispatch(ctx, w.cfg.MaxAttempts, available, w.cfg.ClaimTimeout)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("dispatchWorker: ClaimPendingDispatch error: %v", err)
				continue
			}

			for i := range execs {
				exec := execs[i]

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Deliveries finish even when the poll context is canceled.
					deliverCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
					defer cancel()

					w.Deliver(deliverCtx, &exec)
				}()
			}
		}
	}
}

// Deliver publishes one claimed execution and records the outcome.
func (w *DispatchWorker) Deliver(ctx context.Context, exec *domain.Execution) {
	pub, err := w.router.For(exec.Pipeline)
	if err != nil {
		log.Printf("dispatchWorker: execution %s: %v", exec.ExecutionID, err)
		w.markFailed(ctx, exec, "none", err, true)
		return
	}

	meta := port.PublishMeta{
		ExecutionID: exec.ExecutionID,
		TenantID:    exec.TenantID,
		TraceID:     exec.TraceID,
		Status:      exec.FinalStatus,
		Pipeline:    exec.Pipeline,
	}
	if err := pub.Publish(ctx, exec.Envelope, meta); err != nil {
		final := exec.DispatchAttempts >= w.cfg.MaxAttempts
		log.Printf("dispatchWorker: %s delivery of %s failed (attempt %d/%d): %v",
			pub.Name(), exec.ExecutionID, exec.DispatchAttempts, w.cfg.MaxAttempts, err)
		w.markFailed(ctx, exec, pub.Name(), err, final)
		return
	}

	if err := w.execRepo.MarkDispatched(ctx, exec.ExecutionID); err != nil {
		log.Printf("dispatchWorker: MarkDispatched %s: %v", exec.ExecutionID, err)
		return
	}
	w.metrics.IncrementDispatch(pub.Name(), OutcomeDispatched)
	log.Printf("dispatchWorker: execution %s dispatched via %s", exec.ExecutionID, pub.Name())
}

func (w *DispatchWorker) markFailed(ctx context.Context, exec *domain.Execution, publisher string, cause error, final bool) {
	outcome := OutcomeRetry
	if final {
		outcome = OutcomeFailed
	}
	w.metrics.IncrementDispatch(publisher, outcome)
	if err := w.execRepo.MarkDispatchFailed(ctx, exec.ExecutionID, cause.Error(), final); err != nil {
		log.Printf("dispatchWorker: MarkDispatchFailed %s: %v", exec.ExecutionID, err)
	}
}
