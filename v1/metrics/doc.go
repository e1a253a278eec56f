// Package metrics exposes the service's Prometheus metrics.
//
// NewMetrics builds an isolated registry in which every metric carries a
// constant service label (and optionally a namespace prefix), and an HTTP
// server that serves it at /metrics. Components record through the
// MetricsCollector interface:
//
//	start := time.Now()
//	// ... handle request ...
//	collector.ObserveRequest(r.Method, "/collections/{name}/search", status, start)
//
// FXModule starts and stops the metrics server with the application.
package metrics
