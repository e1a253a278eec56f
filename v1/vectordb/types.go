package vectordb

import "errors"

var (
	// ErrCollectionNotFound is returned when the backend reports a missing collection.
	ErrCollectionNotFound = errors.New("vectordb: collection not found")

	// ErrCollectionExists is returned when creating a collection whose name is taken.
	ErrCollectionExists = errors.New("vectordb: collection already exists")
)

// Distance names reported in Collection.Distance.
const DistanceCosine = "Cosine"

// Point is a vector with its payload, ready to be written.
type Point struct {
	// ID is the backend point identifier (a UUID string).
	ID string `json:"id"`

	// Vector is the dense embedding.
	Vector []float32 `json:"vector"`

	// Payload is the metadata stored next to the vector.
	Payload map[string]any `json:"payload,omitempty"`
}

// Record is a stored point returned by Scroll.
type Record struct {
	ID      string         `json:"id"`
	Payload map[string]any `json:"payload"`
}

// SearchRequest represents a single similarity search query.
type SearchRequest struct {
	// CollectionName is the target collection to search in
	CollectionName string `json:"collectionName"`

	// Vector is the query embedding to find similar vectors for
	Vector []float32 `json:"vector"`

	// TopK is the maximum number of results to return
	TopK int `json:"maxResults"`

	// Filters is optional metadata filtering (AND/OR/NOT logic)
	Filters *FilterSet `json:"filters,omitempty"`
}

// SearchResult represents a single search result with its similarity score.
type SearchResult struct {
	// ID is the unique identifier of the matched point
	ID string `json:"id"`

	// Score is the similarity score (higher = more similar for cosine)
	Score float32 `json:"score"`

	// Payload contains the metadata stored with the vector
	Payload map[string]any `json:"payload"`
}

// Collection contains metadata about a vector collection.
type Collection struct {
	// Name is the unique identifier of the collection
	Name string `json:"name"`

	// Status indicates the operational state (e.g., "Green", "Yellow")
	Status string `json:"status"`

	// VectorSize is the dimension of vectors in this collection
	VectorSize int `json:"vector_size"`

	// Distance is the similarity metric (e.g., "Cosine", "Dot", "Euclid")
	Distance string `json:"distance"`

	// VectorCount is the number of indexed vectors
	VectorCount uint64 `json:"vector_count"`

	// PointCount is the number of stored points
	PointCount uint64 `json:"point_count"`
}
