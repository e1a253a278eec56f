// Package embedding turns article text into vectors.
//
// # Overview
//
// Application code depends on the Embedder interface. The Client built by
// NewClient implements it and hides the provider, request batching and the
// optional on-disk cache:
//
//	client, err := embedding.NewClient(embedding.Params{Config: cfg, Logger: log})
//	vectors, err := client.Embed(ctx, []string{article.Text()})
//
// # Providers
//
//   - "openai": any OpenAI-compatible /embeddings endpoint, called through
//     github.com/openai/openai-go. Rate limits, server errors and network
//     failures are retried with github.com/avast/retry-go; other client
//     errors fail immediately.
//
//   - "hash": a deterministic feature-hashing embedder that needs no
//     network. Used by tests and for offline runs.
//
// Every vector must have exactly Config.Dimension entries; a provider
// returning anything else is an error.
//
// # Cache
//
// When Config.CachePath is set, vectors are kept in a bbolt file keyed by
// sha256(model, dimension, text), so re-ingesting the same articles does
// not hit the provider again. Lookups are counted by the
// embedding_cache_lookups_total metric.
//
// # Configuration
//
// Config fields carry yaml and envconfig tags (EMBEDDING_PROVIDER,
// EMBEDDING_ENDPOINT, EMBEDDING_API_KEY, EMBEDDING_MODEL,
// EMBEDDING_DIMENSION, EMBEDDING_BATCH_SIZE, EMBEDDING_CACHE_PATH, ...).
// DefaultConfig selects the hash provider with 1024 dimensions.
//
// # Dependency Injection (Fx)
//
// FXModule provides *Client and Embedder and closes the cache on stop.
// A *Config must be supplied:
//
//	app := fx.New(
//	    fx.Supply(cfg),
//	    logger.FXModule,
//	    embedding.FXModule,
//	    fx.Invoke(func(e embedding.Embedder) { ... }),
//	)
package embedding
