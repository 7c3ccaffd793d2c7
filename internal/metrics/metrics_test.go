package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpaetl/internal/metrics"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.IncrementProcessed("success", "enterprise")
	m.IncrementProcessed("success", "enterprise")
	m.IncrementProcessed("error", "custom")
	m.ObserveTrustScore(0.9)
	m.ObserveStage("READ", 20*time.Millisecond)
	m.IncrementStageFailure("PARSE")
	m.IncrementDispatch("webhook", "retry")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsProcessed.WithLabelValues("success", "enterprise")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsProcessed.WithLabelValues("error", "custom")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageFailures.WithLabelValues("PARSE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DispatchOutcome.WithLabelValues("webhook", "retry")))

	count, err := testutil.GatherAndCount(reg, "rpaetl_trust_score", "rpaetl_stage_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.IncrementProcessed("success", "enterprise")
		m.ObserveTrustScore(1)
		m.ObserveStage("READ", time.Second)
		m.IncrementStageFailure("READ")
		m.IncrementDispatch("redis_stream", "dispatched")
	})
}
