package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.IngestionFinished("success")
	m.IngestionFinished("success")
	m.QueryFinished("no_match")
	m.ChunkVectorsStored(3)
	m.ObserveStep("ingestion", "embedding", time.Now())

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ingestions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("no_match")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.chunkVectorsStored))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IngestionFinished("success")
		m.QueryFinished("answered")
		m.ChunkVectorsStored(1)
		m.ObserveStep("retrieval", "search", time.Now())
	})
}
