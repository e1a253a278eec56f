package embedding

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the embedding system into Fx.
//
// It provides:
//   - *Client                (NewClient)
//   - Embedder               (the same *Client)
//   - Lifecycle hook         (RegisterEmbeddingLifecycle)
//
// A *Config must be supplied by the application.
var FXModule = fx.Module(
	"embedding",

	fx.Provide(
		NewClient,
		fx.Annotate(
			func(c *Client) Embedder { return c },
			fx.As(new(Embedder)),
		),
	),

	fx.Invoke(RegisterEmbeddingLifecycle),
)

// RegisterEmbeddingLifecycle closes the Client (and its cache) on
// application shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
