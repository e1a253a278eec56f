// Package ingest loads upstream article exports into a catalog
// collection.
//
// A Source yields records (files, bucket objects, queue or topic
// messages) that each hold one or more articles as a JSON array, a
// single object or JSON lines. The Pipeline decodes them, skips articles
// the ledger already holds for the collection, embeds the rest in
// batches and adds them as items. Per-article outcomes are counted in
// Stats and in the ingest_articles_total metric.
//
// Records are acknowledged once all their articles are handled. Records
// that do not decode are rejected; a failing embedding provider or index
// stops the run.
package ingest
