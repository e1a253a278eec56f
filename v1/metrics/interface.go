package metrics

import "time"

// MetricsCollector is the set of measurements the service records.
// *Metrics implements it; NewNop returns an implementation that records nothing.
type MetricsCollector interface {
	// ObserveRequest records one handled HTTP request.
	ObserveRequest(method, route string, status int, start time.Time)

	// IncIndexOperation counts a catalog operation by outcome ("ok" or an error kind).
	IncIndexOperation(operation, outcome string)

	// IncIngested counts ingested articles by outcome ("added", "skipped", "invalid", "failed").
	IncIngested(outcome string)

	// IncEmbeddingCache counts embedding cache lookups by result ("hit" or "miss").
	IncEmbeddingCache(result string)
}
