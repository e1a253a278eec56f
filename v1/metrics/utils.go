package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, start time.Time) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// IncIndexOperation counts a catalog operation by outcome.
func (m *Metrics) IncIndexOperation(operation, outcome string) {
	m.indexOperations.WithLabelValues(operation, outcome).Inc()
}

// IncIngested counts an ingested article by outcome.
func (m *Metrics) IncIngested(outcome string) {
	m.ingestedTotal.WithLabelValues(outcome).Inc()
}

// IncEmbeddingCache counts an embedding cache lookup.
func (m *Metrics) IncEmbeddingCache(result string) {
	m.embeddingCache.WithLabelValues(result).Inc()
}

type nop struct{}

// NewNop returns a collector that records nothing.
func NewNop() MetricsCollector { return nop{} }

func (nop) ObserveRequest(string, string, int, time.Time) {}
func (nop) IncIndexOperation(string, string)              {}
func (nop) IncIngested(string)                            {}
func (nop) IncEmbeddingCache(string)                      {}

// createCounterVec defines a new CounterVec with standard options.
func createCounterVec(name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labels,
	)
}

// createHistogramVec defines a new HistogramVec with configurable buckets.
func createHistogramVec(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labels,
	)
}
