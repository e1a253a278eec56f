package rabbit

import (
	"context"
	"sync"

	"go.uber.org/fx"
)

// FXModule provides *RabbitClient and Client, keeps the connection alive
// while the application runs and shuts the client down on stop.
//
// A *rabbit.Config must be supplied by the application.
var FXModule = fx.Module("rabbit",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(r *RabbitClient) Client { return r },
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterRabbitLifecycle),
)

// RabbitParams groups the dependencies of NewClientWithDI.
type RabbitParams struct {
	fx.In

	Config *Config
	Logger Logger `optional:"true"`
}

func NewClientWithDI(p RabbitParams) (*RabbitClient, error) {
	return NewClient(p.Config, p.Logger)
}

// RegisterRabbitLifecycle runs RetryConnection in the background and
// waits for it to return after GracefulShutdown.
func RegisterRabbitLifecycle(lc fx.Lifecycle, client *RabbitClient) {
	wg := &sync.WaitGroup{}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				client.RetryConnection()
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			client.GracefulShutdown()
			wg.Wait()
			return nil
		},
	})
}
