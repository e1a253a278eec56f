package minio

import (
	"context"
	"sync"

	"go.uber.org/fx"
)

// FXModule provides *MinioClient and Client from a supplied *minio.Config
// and runs the connection monitor while the application is up.
var FXModule = fx.Module("minio",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(m *MinioClient) Client { return m },
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterMinioLifecycle),
)

type MinioParams struct {
	fx.In

	Config *Config
	Logger Logger `optional:"true"`
}

func NewClientWithDI(p MinioParams) (*MinioClient, error) {
	return NewClient(p.Config, p.Logger)
}

func RegisterMinioLifecycle(lc fx.Lifecycle, client *MinioClient) {
	wg := &sync.WaitGroup{}
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				client.MonitorConnection(ctx)
			}()
			go func() {
				defer wg.Done()
				client.RetryConnection(ctx)
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			client.GracefulShutdown()
			wg.Wait()
			return nil
		},
	})
}
