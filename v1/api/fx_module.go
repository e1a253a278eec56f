package api

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *Server and serves HTTP for the lifetime of the
// application. A *Config and a *catalog.Catalog must be available.
var FXModule = fx.Module("api",
	fx.Provide(NewServer),
	fx.Invoke(RegisterServerLifecycle),
)

// RegisterServerLifecycle starts listening on start and drains in-flight
// requests on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			return s.Shutdown(ctx)
		},
	})
}
