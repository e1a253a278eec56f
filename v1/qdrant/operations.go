package qdrant

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/scholar-index/v1/articles"
	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

var _ vectordb.Index = (*QdrantClient)(nil)

// payloadIndexes lists the article fields that receive a payload index
// so that filtered search and document_id lookups do not scan.
var payloadIndexes = map[string]qdrant.FieldType{
	articles.FieldDocumentID:         qdrant.FieldType_FieldTypeKeyword,
	articles.FieldTitle:              qdrant.FieldType_FieldTypeKeyword,
	articles.FieldLanguage:           qdrant.FieldType_FieldTypeKeyword,
	articles.FieldDOI:                qdrant.FieldType_FieldTypeKeyword,
	articles.FieldURL:                qdrant.FieldType_FieldTypeKeyword,
	articles.FieldAuthors:            qdrant.FieldType_FieldTypeKeyword,
	articles.FieldAuthorAffiliations: qdrant.FieldType_FieldTypeKeyword,
	articles.FieldKeywords:           qdrant.FieldType_FieldTypeKeyword,
	articles.FieldCreated:            qdrant.FieldType_FieldTypeInteger,
	articles.FieldModified:           qdrant.FieldType_FieldTypeInteger,
}

// CollectionExists ──────────────────────────────────────────────────────────────
// CollectionExists
// ──────────────────────────────────────────────────────────────
func (c *QdrantClient) CollectionExists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ok, err := c.api.CollectionExists(ctx, name)
	if err != nil {
		return false, classify(err, "check collection '%s'", name)
	}
	return ok, nil
}

// CreateCollection ──────────────────────────────────────────────────────────────
// CreateCollection
// ──────────────────────────────────────────────────────────────
//
// CreateCollection creates a cosine-distance collection. If the name is
// already taken the returned error wraps vectordb.ErrCollectionExists.
// When Config.IndexPayload is set, payload indexes are created for the
// filterable article fields; failures there are logged, not returned.
func (c *QdrantClient) CreateCollection(ctx context.Context, name string, vectorSize uint64) error {
	if name == "" {
		return fmt.Errorf("[Qdrant] collection name cannot be empty")
	}
	if vectorSize == 0 {
		return fmt.Errorf("[Qdrant] vector size must be greater than 0")
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	err := c.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return classify(err, "create collection '%s'", name)
	}

	c.logger.Info("[Qdrant] collection created", nil, map[string]interface{}{
		"collection":  name,
		"vector_size": vectorSize,
	})

	if c.cfg != nil && c.cfg.IndexPayload {
		c.createPayloadIndexes(ctx, name)
	}
	return nil
}

func (c *QdrantClient) createPayloadIndexes(ctx context.Context, name string) {
	for field, fieldType := range payloadIndexes {
		_, err := c.api.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: name,
			FieldName:      field,
			FieldType:      fieldType.Enum(),
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			c.logger.Warn("[Qdrant] failed to create payload index", err, map[string]interface{}{
				"collection": name,
				"field":      field,
			})
		}
	}
}

// DeleteCollection ──────────────────────────────────────────────────────────────
// DeleteCollection
// ──────────────────────────────────────────────────────────────
func (c *QdrantClient) DeleteCollection(ctx context.Context, name string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.api.DeleteCollection(ctx, name); err != nil {
		return classify(err, "delete collection '%s'", name)
	}

	c.logger.Info("[Qdrant] collection deleted", nil, map[string]interface{}{
		"collection": name,
	})
	return nil
}

// GetCollection ──────────────────────────────────────────────────────────────
// GetCollection
// ──────────────────────────────────────────────────────────────
//
// GetCollection retrieves metadata about a collection: status, vector
// size, distance and point counts.
func (c *QdrantClient) GetCollection(ctx context.Context, name string) (*vectordb.Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("[Qdrant] collection name cannot be empty")
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	info, err := c.api.GetCollectionInfo(ctx, name)
	if err != nil {
		return nil, classify(err, "get collection '%s'", name)
	}

	return collectionFromInfo(name, info), nil
}

// ListCollections ──────────────────────────────────────────────────────────────
// ListCollections
// ──────────────────────────────────────────────────────────────
func (c *QdrantClient) ListCollections(ctx context.Context) ([]string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	names, err := c.api.ListCollections(ctx)
	if err != nil {
		return nil, classify(err, "list collections")
	}

	c.logger.Debug("[Qdrant] listed collections", nil, map[string]interface{}{
		"count": len(names),
	})
	return names, nil
}

// Upsert ──────────────────────────────────────────────────────────────
// Upsert
// ──────────────────────────────────────────────────────────────
//
// Upsert writes points and blocks (Wait=true) until they are persisted,
// so a subsequent Scroll or Query observes them.
func (c *QdrantClient) Upsert(ctx context.Context, collection string, points ...vectordb.Point) error {
	if len(points) == 0 {
		return nil
	}

	structs, err := toPointStructs(points)
	if err != nil {
		return fmt.Errorf("[Qdrant] failed to convert points: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	_, err = c.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         structs,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return classify(err, "upsert into '%s'", collection)
	}
	return nil
}

// Scroll ──────────────────────────────────────────────────────────────
// Scroll
// ──────────────────────────────────────────────────────────────
//
// Scroll returns up to limit points matching filter, with payload and
// without vectors.
func (c *QdrantClient) Scroll(ctx context.Context, collection string, filter *vectordb.FilterSet, limit int) ([]vectordb.Record, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("[Qdrant] scroll limit must be greater than 0")
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	points, err := c.api.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collection,
		Filter:         convertFilterSet(filter),
		Limit:          qdrant.PtrOf(uint32(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, classify(err, "scroll '%s'", collection)
	}

	records := make([]vectordb.Record, 0, len(points))
	for _, p := range points {
		id, err := extractPointID(p.GetId())
		if err != nil {
			return nil, fmt.Errorf("[Qdrant] %w", err)
		}
		records = append(records, vectordb.Record{ID: id, Payload: convertPayload(p.GetPayload())})
	}
	return records, nil
}

// DeleteByFilter ──────────────────────────────────────────────────────────────
// DeleteByFilter
// ──────────────────────────────────────────────────────────────
//
// DeleteByFilter removes all points matching filter. An empty filter is
// rejected, since it would select the whole collection.
func (c *QdrantClient) DeleteByFilter(ctx context.Context, collection string, filter *vectordb.FilterSet) error {
	qf := convertFilterSet(filter)
	if qf == nil {
		return fmt.Errorf("[Qdrant] refusing to delete from '%s' without a filter", collection)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         qdrant.NewPointsSelectorFilter(qf),
	})
	if err != nil {
		return classify(err, "delete points from '%s'", collection)
	}

	c.logger.Debug("[Qdrant] delete completed", nil, map[string]interface{}{
		"collection": collection,
		"status":     resp.GetStatus().String(),
	})
	return nil
}

// Query ──────────────────────────────────────────────────────────────
// Query
// ──────────────────────────────────────────────────────────────
//
// Query performs a nearest-neighbour search, optionally restricted by
// the request filters. Results come back best match first.
func (c *QdrantClient) Query(ctx context.Context, req vectordb.SearchRequest) ([]vectordb.SearchResult, error) {
	if err := validateSearchInput(req.CollectionName, req.Vector, req.TopK); err != nil {
		return nil, err
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: req.CollectionName,
		Query:          qdrant.NewQuery(req.Vector...),
		Filter:         convertFilterSet(req.Filters),
		Limit:          qdrant.PtrOf(uint64(req.TopK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, classify(err, "search '%s'", req.CollectionName)
	}

	results, err := parseSearchResults(resp)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] %w", err)
	}

	c.logger.Debug("[Qdrant] search completed", nil, map[string]interface{}{
		"collection": req.CollectionName,
		"results":    len(results),
	})
	return results, nil
}

// Count ──────────────────────────────────────────────────────────────
// Count
// ──────────────────────────────────────────────────────────────
func (c *QdrantClient) Count(ctx context.Context, collection string, filter *vectordb.FilterSet) (uint64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	n, err := c.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Filter:         convertFilterSet(filter),
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, classify(err, "count points in '%s'", collection)
	}
	return n, nil
}
