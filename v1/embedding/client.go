package embedding

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/scholar-index/v1/logger"
	"github.com/Aleph-Alpha/scholar-index/v1/metrics"
	"github.com/Aleph-Alpha/scholar-index/v1/tracer"
)

// Client is the public entrypoint for computing embeddings.
//
// It hides the provider, the cache and request batching from the
// application layer, which only depends on the Embedder interface.
type Client struct {
	embedder  Embedder
	batchSize int
	model     string
	tracer    *tracer.Tracer
	closers   []func() error
}

var _ Embedder = (*Client)(nil)

// Params groups the dependencies of NewClient.
type Params struct {
	fx.In

	Config  *Config
	Logger  logger.Logger            `optional:"true"`
	Metrics metrics.MetricsCollector `optional:"true"`
	Tracer  *tracer.Tracer           `optional:"true"`
}

// NewClient validates the config and constructs the configured provider,
// wrapped in the on-disk cache when Config.CachePath is set.
func NewClient(p Params) (*Client, error) {
	cfg := p.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}
	tr := p.Tracer
	if tr == nil {
		tr = tracer.NewNop()
	}

	c := &Client{batchSize: cfg.BatchSize, model: cfg.Model, tracer: tr}

	switch cfg.Provider {
	case ProviderOpenAI:
		c.embedder = NewInferenceProvider(cfg, log)
	case ProviderHash:
		c.model = ProviderHash
		c.embedder = NewHashEmbedder(cfg.Dimension)
	}

	if cfg.CachePath != "" {
		cached, err := NewCachedEmbedder(c.embedder, cfg.CachePath, c.model, p.Metrics)
		if err != nil {
			return nil, err
		}
		c.embedder = cached
		c.closers = append(c.closers, cached.Close)
	}

	log.Info("Embedding client ready", nil, map[string]interface{}{
		"provider":  cfg.Provider,
		"model":     c.model,
		"dimension": cfg.Dimension,
		"cached":    cfg.CachePath != "",
	})
	return c, nil
}

// NewFromEmbedder wraps an existing Embedder, e.g. a HashEmbedder in tests.
func NewFromEmbedder(e Embedder, batchSize int) *Client {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Client{embedder: e, batchSize: batchSize, tracer: tracer.NewNop()}
}

// Dimension returns the length of the vectors produced by Embed.
func (c *Client) Dimension() int { return c.embedder.Dimension() }

// Embed computes one vector per text, splitting texts into batches of at
// most Config.BatchSize.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, span := c.tracer.StartSpan(ctx, "embedding.embed")
	defer span.End()
	c.tracer.SetAttributes(span, map[string]interface{}{
		"model": c.model,
		"texts": len(texts),
	})

	out := make([][]float32, 0, len(texts))
	for _, batch := range lo.Chunk(texts, c.batchSize) {
		vectors, err := c.embedder.Embed(ctx, batch)
		if err != nil {
			c.tracer.RecordErrorOnSpan(span, err)
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}

// EmbedOne is a convenience wrapper for a single text.
func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Close releases the cache file, if any.
func (c *Client) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
