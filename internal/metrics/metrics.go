package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for document processing and dispatch.
type Metrics struct {
	// Finished runs by final status and pipeline
	DocumentsProcessed *prometheus.CounterVec

	// Trust score distribution of finished runs
	TrustScore prometheus.Histogram

	// Per-stage durations taken from the audit trail
	StageDuration *prometheus.HistogramVec

	// Stage aborts by stage
	StageFailures *prometheus.CounterVec

	// Delivery outcomes by publisher
	DispatchOutcome *prometheus.CounterVec
}

// New registers all metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		DocumentsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rpaetl_documents_processed_total",
			Help: "Total processed documents by final status and pipeline",
		}, []string{"status", "pipeline"}),

		TrustScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "rpaetl_trust_score",
			Help:    "Trust score of processed documents",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}),

		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rpaetl_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"stage"}), // READ, NORMALIZE, PARSE, VALIDATE

		StageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rpaetl_stage_failures_total",
			Help: "Total aborted runs by failing stage",
		}, []string{"stage"}),

		DispatchOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rpaetl_dispatch_outcomes_total",
			Help: "Envelope deliveries by publisher and outcome",
		}, []string{"publisher", "outcome"}), // outcome: "dispatched", "retry", "failed"
	}
}

// IncrementProcessed records a finished run.
func (m *Metrics) IncrementProcessed(status, pipeline string) {
	if m != nil {
		m.DocumentsProcessed.WithLabelValues(status, pipeline).Inc()
	}
}

// ObserveTrustScore records the trust score of a finished run.
func (m *Metrics) ObserveTrustScore(score float64) {
	if m != nil {
		m.TrustScore.Observe(score)
	}
}

// ObserveStage records the duration of one stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m != nil {
		m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// IncrementStageFailure records a run aborted at stage.
func (m *Metrics) IncrementStageFailure(stage string) {
	if m != nil {
		m.StageFailures.WithLabelValues(stage).Inc()
	}
}

// IncrementDispatch records a delivery attempt outcome.
func (m *Metrics) IncrementDispatch(publisher, outcome string) {
	if m != nil {
		m.DispatchOutcome.WithLabelValues(publisher, outcome).Inc()
	}
}
