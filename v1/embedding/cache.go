package embedding

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/Aleph-Alpha/scholar-index/v1/metrics"
)

var vectorsBucket = []byte("vectors")

// CachedEmbedder stores vectors computed by another Embedder in a bbolt
// file and only forwards texts it has not seen for the same model and
// dimension.
type CachedEmbedder struct {
	next    Embedder
	db      *bbolt.DB
	model   string
	metrics metrics.MetricsCollector
}

// NewCachedEmbedder opens (or creates) the cache file at path.
func NewCachedEmbedder(next Embedder, path, model string, m metrics.MetricsCollector) (*CachedEmbedder, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("embedding: open cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(vectorsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("embedding: create cache bucket: %w", err)
	}

	if m == nil {
		m = metrics.NewNop()
	}
	return &CachedEmbedder{next: next, db: db, model: model, metrics: m}, nil
}

func (c *CachedEmbedder) Dimension() int { return c.next.Dimension() }

func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	dim := c.Dimension()

	var missing []int
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(vectorsBucket)
		for i, text := range texts {
			raw := b.Get(cacheKey(c.model, dim, text))
			if len(raw) != 4*dim {
				missing = append(missing, i)
				continue
			}
			out[i] = decodeVector(raw)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: read cache: %w", err)
	}

	for range len(texts) - len(missing) {
		c.metrics.IncEmbeddingCache("hit")
	}
	for range missing {
		c.metrics.IncEmbeddingCache("miss")
	}
	if len(missing) == 0 {
		return out, nil
	}

	pending := make([]string, len(missing))
	for j, i := range missing {
		pending[j] = texts[i]
	}
	vectors, err := c.next.Embed(ctx, pending)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(pending) {
		return nil, fmt.Errorf("embedding: expected %d embeddings, got %d", len(pending), len(vectors))
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(vectorsBucket)
		for j, i := range missing {
			out[i] = vectors[j]
			if err := b.Put(cacheKey(c.model, dim, pending[j]), encodeVector(vectors[j])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embedding: write cache: %w", err)
	}
	return out, nil
}

// Close closes the cache file.
func (c *CachedEmbedder) Close() error {
	return c.db.Close()
}
