package vectordb

import "context"

// Index is the vector index backend consumed by the catalog.
// Implementations must be safe for concurrent use.
//
//go:generate mockgen -source=interface.go -destination=mock_index.go -package=vectordb
type Index interface {
	// CollectionExists reports whether a collection with the given name exists.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// CreateCollection creates a cosine-distance collection with vectors of vectorSize.
	CreateCollection(ctx context.Context, name string, vectorSize uint64) error

	// DeleteCollection drops a collection together with all of its points.
	DeleteCollection(ctx context.Context, name string) error

	// GetCollection returns metadata about a collection.
	GetCollection(ctx context.Context, name string) (*Collection, error)

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// Upsert writes points and waits until they are persisted.
	Upsert(ctx context.Context, collection string, points ...Point) error

	// Scroll returns up to limit points matching filter, without vectors.
	Scroll(ctx context.Context, collection string, filter *FilterSet, limit int) ([]Record, error)

	// DeleteByFilter removes every point matching filter and waits for completion.
	DeleteByFilter(ctx context.Context, collection string, filter *FilterSet) error

	// Query runs a nearest-neighbour search. Results are ordered by descending score.
	Query(ctx context.Context, req SearchRequest) ([]SearchResult, error)

	// Count returns the exact number of points matching filter.
	Count(ctx context.Context, collection string, filter *FilterSet) (uint64, error)
}
