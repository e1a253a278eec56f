package qdrant

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

// FXModule provides *QdrantClient, exposes it as vectordb.Index and
// closes it when the application stops.
//
// A *qdrant.Config must be supplied by the application.
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewQdrantClient,
		fx.Annotate(
			func(c *QdrantClient) vectordb.Index { return c },
			fx.As(new(vectordb.Index)),
		),
	),
	fx.Invoke(RegisterLifecycle),
)

// RegisterLifecycle closes the client on shutdown.
func RegisterLifecycle(lc fx.Lifecycle, client *QdrantClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
