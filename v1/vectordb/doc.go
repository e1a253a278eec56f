// Package vectordb defines the index backend contract used by the catalog.
//
// # Overview
//
// The catalog never talks to a vector database directly. It depends on the
// [Index] interface declared here, together with backend-neutral point,
// collection and filter types. The qdrant package provides the production
// implementation; [MockIndex] is used in unit tests.
//
//	┌──────────────────────────────────────────┐
//	│ catalog (collections, items, search)     │
//	└────────────────────┬─────────────────────┘
//	                     ▼
//	┌──────────────────────────────────────────┐
//	│ vectordb.Index  +  FilterSet / Point     │
//	└────────────────────┬─────────────────────┘
//	                     ▼
//	┌──────────────────────────────────────────┐
//	│ qdrant.Adapter (go-client over gRPC)     │
//	└──────────────────────────────────────────┘
//
// # Filters
//
// A [FilterSet] holds Must (AND), Should (OR) and MustNot (NOT) clauses.
// Conditions are exact matches on keyword or integer payload fields and
// inclusive or exclusive numeric ranges:
//
//	filters := vectordb.NewFilterSet(
//	    vectordb.Must(
//	        vectordb.NewMatch("authors", "Anna Nowak"),
//	        vectordb.NewNumericRange("created", vectordb.NumericRange{Gte: vectordb.Float(20250101)}),
//	    ),
//	)
//
// A nil FilterSet, or one whose clauses hold no conditions, means "match all".
//
// # Errors
//
// Implementations translate backend failures into [ErrCollectionNotFound] and
// [ErrCollectionExists] where the backend reports them with a structured code,
// so callers can rely on errors.Is instead of inspecting messages.
package vectordb
