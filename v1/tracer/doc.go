// Package tracer provides distributed tracing on top of OpenTelemetry.
//
// A Tracer is created once per process with NewClient and shared. Catalog
// operations, HTTP handlers and ingest workers open spans with StartSpan,
// record failures with RecordErrorOnSpan and annotate spans with
// SetAttributes. GetCarrier and SetCarrierOnContext move the trace context
// through message headers, so a document published to a broker is indexed
// under the publisher's trace:
//
//	// producer
//	headers := t.GetCarrier(ctx)
//
//	// consumer
//	ctx = t.SetCarrierOnContext(ctx, headers)
//	ctx, span := t.StartSpan(ctx, "ingest.message")
//	defer span.End()
//
// All methods are safe for concurrent use.
package tracer
