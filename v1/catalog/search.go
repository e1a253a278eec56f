package catalog

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/scholar-index/v1/articles"
	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

// Query is a similarity search over one collection.
type Query struct {
	Collection string
	Vector     []float32
	TopK       int
	Filter     Filter
}

// ScoredDocument is one search hit.
type ScoredDocument struct {
	Score   float32           `json:"score"`
	Payload articles.Document `json:"payload"`
}

// Search returns up to q.TopK documents nearest to q.Vector that satisfy
// q.Filter, best match first. A TopK larger than the collection simply
// returns every matching document.
//
// The filter is compiled before the backend is queried, so a malformed
// date never reaches it.
func (c *Catalog) Search(ctx context.Context, q Query) (_ []ScoredDocument, err error) {
	ctx, span := c.start(ctx, "search", q.Collection)
	defer func() { c.finish(ctx, span, "search", q.Collection, err) }()

	if q.TopK < 1 {
		return nil, newError(ErrInvalidRequest, "top_k must be greater than 0.")
	}

	info, err := c.describe(ctx, q.Collection)
	if err != nil {
		return nil, err
	}
	if err := checkDimension(q.Vector, info.VectorSize); err != nil {
		return nil, err
	}

	// Only the read-only collection lookup has run so far. The filter is
	// compiled before any query is sent.
	filter, err := CompileFilter(q.Filter)
	if err != nil {
		return nil, err
	}

	hits, err := c.index.Query(ctx, vectordb.SearchRequest{
		CollectionName: q.Collection,
		Vector:         q.Vector,
		TopK:           q.TopK,
		Filters:        filter,
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: search %q: %w", q.Collection, err)
	}

	results := make([]ScoredDocument, 0, len(hits))
	for _, hit := range hits {
		doc, err := articles.DocumentFromFields(hit.Payload)
		if err != nil {
			return nil, fmt.Errorf("catalog: decode point %s: %w", hit.ID, err)
		}
		results = append(results, ScoredDocument{Score: hit.Score, Payload: doc})
	}

	c.tracer.SetAttributes(span, map[string]interface{}{
		"top_k":    q.TopK,
		"filtered": filter != nil,
		"results":  len(results),
	})
	return results, nil
}
