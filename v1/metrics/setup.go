package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics encapsulates the Prometheus registry and HTTP server responsible
// for exposing application metrics.
type Metrics struct {
	// Server defines the HTTP server used to expose the /metrics endpoint.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	// Each service maintains its own isolated registry to prevent metric name collisions.
	Registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	indexOperations *prometheus.CounterVec
	ingestedTotal   *prometheus.CounterVec
	embeddingCache  *prometheus.CounterVec
}

// NewMetrics sets up a dedicated registry whose metrics all carry the
// service label, registers the service metrics and, if enabled, the default
// runtime collectors, and prepares the /metrics HTTP server.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "scholar-index"})
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)
	if cfg.Namespace != "" {
		wrappedRegistry = prometheus.WrapRegistererWithPrefix(cfg.Namespace+"_", wrappedRegistry)
	}

	m := &Metrics{
		Registry: registry,
	}

	m.requestsTotal = createCounterVec("http_requests_total", "Total number of handled HTTP requests", []string{"method", "route", "status"})
	m.requestDuration = createHistogramVec("http_request_duration_seconds", "Duration of HTTP requests in seconds", []string{"route"}, prometheus.DefBuckets)
	m.indexOperations = createCounterVec("index_operations_total", "Catalog operations against the vector index", []string{"operation", "outcome"})
	m.ingestedTotal = createCounterVec("ingest_articles_total", "Articles processed by the ingest pipeline", []string{"outcome"})
	m.embeddingCache = createCounterVec("embedding_cache_lookups_total", "Embedding cache lookups", []string{"result"})

	wrappedRegistry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.indexOperations,
		m.ingestedTotal,
		m.embeddingCache,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	address := cfg.Address
	if address == "" {
		address = DefaultMetricsAddress
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	m.Server = &http.Server{
		Addr:    address,
		Handler: mux,
	}
	return m
}
