package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

// CreateCollection creates a cosine collection with the given vector size.
// A taken name fails with ErrCollectionAlreadyExists, found either by the
// existence check or by the backend rejecting the create.
func (c *Catalog) CreateCollection(ctx context.Context, name string, vectorSize int) (err error) {
	ctx, span := c.start(ctx, "create_collection", name)
	defer func() { c.finish(ctx, span, "create_collection", name, err) }()

	if err := ValidateCollectionName(name); err != nil {
		return err
	}
	if err := ValidateVectorSize(vectorSize); err != nil {
		return err
	}

	exists, err := c.index.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("catalog: check collection %q: %w", name, err)
	}
	if exists {
		return collectionExists(name)
	}

	err = c.index.CreateCollection(ctx, name, uint64(vectorSize))
	if errors.Is(err, vectordb.ErrCollectionExists) {
		return collectionExists(name)
	}
	if err != nil {
		return fmt.Errorf("catalog: create collection %q: %w", name, err)
	}

	c.logger.InfoWithContext(ctx, "collection created", nil, map[string]interface{}{
		"collection":  name,
		"vector_size": vectorSize,
	})
	return nil
}

// DeleteCollection drops name and every item in it.
func (c *Catalog) DeleteCollection(ctx context.Context, name string) (err error) {
	ctx, span := c.start(ctx, "delete_collection", name)
	defer func() { c.finish(ctx, span, "delete_collection", name, err) }()

	if err := c.requireCollection(ctx, name); err != nil {
		return err
	}

	err = c.index.DeleteCollection(ctx, name)
	if errors.Is(err, vectordb.ErrCollectionNotFound) {
		return collectionMissing(name)
	}
	if err != nil {
		return fmt.Errorf("catalog: delete collection %q: %w", name, err)
	}

	c.logger.InfoWithContext(ctx, "collection deleted", nil, map[string]interface{}{
		"collection": name,
	})
	return nil
}

// ListCollections returns all collection names in backend order.
func (c *Catalog) ListCollections(ctx context.Context) (_ []string, err error) {
	ctx, span := c.start(ctx, "list_collections", "")
	defer func() { c.finish(ctx, span, "list_collections", "", err) }()

	names, err := c.index.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: list collections: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// CollectionInfo describes a collection.
func (c *Catalog) CollectionInfo(ctx context.Context, name string) (_ *vectordb.Collection, err error) {
	ctx, span := c.start(ctx, "collection_info", name)
	defer func() { c.finish(ctx, span, "collection_info", name, err) }()

	return c.describe(ctx, name)
}
