package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Aleph-Alpha/scholar-index/v1/articles"
	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

// AddItem validates payload and stores it with vector in collection.
// It returns the generated document id. Nothing is written when any
// check fails.
//
// The point id and the document id are independent random (v4) UUIDs;
// only the document id is ever exposed.
func (c *Catalog) AddItem(ctx context.Context, collection string, vector []float32, payload articles.Payload) (_ string, err error) {
	ctx, span := c.start(ctx, "add_item", collection)
	defer func() { c.finish(ctx, span, "add_item", collection, err) }()

	info, err := c.describe(ctx, collection)
	if err != nil {
		return "", err
	}
	if err := checkDimension(vector, info.VectorSize); err != nil {
		return "", err
	}

	normalized, err := articles.Validate(payload)
	if err != nil {
		return "", err
	}

	pointID, documentID := uuid.NewString(), uuid.NewString()

	err = c.index.Upsert(ctx, collection, vectordb.Point{
		ID:      pointID,
		Vector:  vector,
		Payload: normalized.Fields(documentID),
	})
	if err != nil {
		return "", fmt.Errorf("catalog: add item to %q: %w", collection, err)
	}

	c.tracer.SetAttributes(span, map[string]interface{}{"document_id": documentID})
	c.logger.Debug("item added", nil, map[string]interface{}{
		"collection":  collection,
		"document_id": documentID,
	})
	return documentID, nil
}

// DeleteItem removes the item whose document id is documentID.
//
// The lookup and the delete are separate backend calls; if two callers
// race on the same document the loser sees ErrDocumentDoesNotExist.
func (c *Catalog) DeleteItem(ctx context.Context, collection, documentID string) (err error) {
	ctx, span := c.start(ctx, "delete_item", collection)
	defer func() { c.finish(ctx, span, "delete_item", collection, err) }()

	if err := c.requireCollection(ctx, collection); err != nil {
		return err
	}

	byDocument := documentFilter(documentID)

	found, err := c.index.Scroll(ctx, collection, byDocument, 1)
	if err != nil {
		return fmt.Errorf("catalog: look up document %q: %w", documentID, err)
	}
	if len(found) == 0 {
		return documentMissing(documentID)
	}

	if err := c.index.DeleteByFilter(ctx, collection, byDocument); err != nil {
		return fmt.Errorf("catalog: delete document %q: %w", documentID, err)
	}

	c.logger.Debug("item deleted", nil, map[string]interface{}{
		"collection":  collection,
		"document_id": documentID,
	})
	return nil
}

// GetItem returns the stored document with documentID.
func (c *Catalog) GetItem(ctx context.Context, collection, documentID string) (_ *articles.Document, err error) {
	ctx, span := c.start(ctx, "get_item", collection)
	defer func() { c.finish(ctx, span, "get_item", collection, err) }()

	if err := c.requireCollection(ctx, collection); err != nil {
		return nil, err
	}

	found, err := c.index.Scroll(ctx, collection, documentFilter(documentID), 1)
	if err != nil {
		return nil, fmt.Errorf("catalog: look up document %q: %w", documentID, err)
	}
	if len(found) == 0 {
		return nil, documentMissing(documentID)
	}

	doc, err := articles.DocumentFromFields(found[0].Payload)
	if err != nil {
		return nil, fmt.Errorf("catalog: decode document %q: %w", documentID, err)
	}
	return &doc, nil
}

// CountItems returns the number of items in collection.
func (c *Catalog) CountItems(ctx context.Context, collection string) (_ uint64, err error) {
	ctx, span := c.start(ctx, "count_items", collection)
	defer func() { c.finish(ctx, span, "count_items", collection, err) }()

	if err := c.requireCollection(ctx, collection); err != nil {
		return 0, err
	}

	n, err := c.index.Count(ctx, collection, nil)
	if err != nil {
		return 0, fmt.Errorf("catalog: count items in %q: %w", collection, err)
	}
	return n, nil
}

func documentFilter(documentID string) *vectordb.FilterSet {
	return vectordb.NewFilterSet(vectordb.Must(vectordb.NewMatch(articles.FieldDocumentID, documentID)))
}
