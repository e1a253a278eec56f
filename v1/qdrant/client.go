package qdrant

import (
	"context"
	"fmt"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/scholar-index/v1/logger"
)

//
// ──────────────────────────────────────────────────────────────
//   QDRANT CLIENT WRAPPER
// ──────────────────────────────────────────────────────────────
//
// QdrantClient wraps the official Qdrant Go client and implements
// vectordb.Index on top of it. Every call is bounded by Config.Timeout
// and every SDK error is classified into the vectordb sentinels where
// possible.
//

// QdrantClient is the Qdrant-backed vector index.
type QdrantClient struct {
	api    *qdrant.Client
	cfg    *Config
	logger logger.Logger
}

// QdrantParams groups the dependencies of NewQdrantClient.
type QdrantParams struct {
	fx.In

	Config *Config
	Logger logger.Logger `optional:"true"`
}

// NewQdrantClient ──────────────────────────────────────────────────────────────
// NewQdrantClient
// ──────────────────────────────────────────────────────────────
//
// NewQdrantClient connects to Qdrant and validates connectivity with a
// health check, failing fast if the service is unreachable.
//
// Example:
//
//	client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{Config: cfg, Logger: log})
func NewQdrantClient(p QdrantParams) (*QdrantClient, error) {
	if p.Config == nil {
		p.Config = DefaultConfig()
	}
	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}

	port := p.Config.Port
	if port == 0 {
		port = DefaultPort
	}

	log.Info("[Qdrant] connecting", nil, map[string]interface{}{
		"endpoint": p.Config.Endpoint,
		"port":     port,
		"tls":      p.Config.UseTLS,
	})

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   p.Config.Endpoint,
		Port:                   port,
		APIKey:                 p.Config.ApiKey,
		UseTLS:                 p.Config.UseTLS,
		SkipCompatibilityCheck: !p.Config.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to initialize client: %w", err)
	}

	qc := &QdrantClient{
		api:    client,
		cfg:    p.Config,
		logger: log,
	}

	if err := qc.HealthCheck(context.Background()); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info("[Qdrant] client connected", nil, nil)
	return qc, nil
}

// HealthCheck ──────────────────────────────────────────────────────────────
// HealthCheck
// ──────────────────────────────────────────────────────────────
//
// HealthCheck verifies that the Qdrant service answers. It is used at
// startup and by the readiness endpoint.
func (c *QdrantClient) HealthCheck(ctx context.Context) error {
	if c.api == nil {
		return fmt.Errorf("[Qdrant] client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("[Qdrant] health check failed: %w", err)
	}

	c.logger.Debug("[Qdrant] health check passed", nil, map[string]interface{}{
		"title":   resp.GetTitle(),
		"version": resp.GetVersion(),
	})
	return nil
}

// Client returns the underlying Qdrant SDK client.
func (c *QdrantClient) Client() *qdrant.Client {
	return c.api
}

// Close releases the gRPC connection.
func (c *QdrantClient) Close() error {
	if c.api == nil {
		return nil
	}
	c.logger.Info("[Qdrant] closing client", nil, nil)
	return c.api.Close()
}

// withTimeout bounds ctx by the configured request timeout.
func (c *QdrantClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg == nil || c.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.Timeout)
}
