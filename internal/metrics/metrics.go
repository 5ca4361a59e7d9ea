package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry           *prometheus.Registry
	ingestions         *prometheus.CounterVec
	queries            *prometheus.CounterVec
	chunkVectorsStored prometheus.Counter
	stepDuration       *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		ingestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "ingestions_total",
			Help:      "Document ingestions by outcome.",
		}, []string{"outcome"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "queries_total",
			Help:      "RAG queries by outcome.",
		}, []string{"outcome"}),
		chunkVectorsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "docqa",
			Name:      "chunk_vectors_stored_total",
			Help:      "Chunk vectors persisted.",
		}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "docqa",
			Name:      "pipeline_step_duration_seconds",
			Help:      "Latency of each pipeline step.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}, []string{"pipeline", "step"}),
	}

	registry.MustRegister(m.ingestions, m.queries, m.chunkVectorsStored, m.stepDuration)
	return m
}

func (m *Metrics) IngestionFinished(outcome string) {
	if m == nil {
		return
	}
	m.ingestions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) QueryFinished(outcome string) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ChunkVectorsStored(n int) {
	if m == nil {
		return
	}
	m.chunkVectorsStored.Add(float64(n))
}

// ObserveStep records the time elapsed since start.
func (m *Metrics) ObserveStep(pipeline, step string, start time.Time) {
	if m == nil {
		return
	}
	m.stepDuration.WithLabelValues(pipeline, step).Observe(time.Since(start).Seconds())
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
