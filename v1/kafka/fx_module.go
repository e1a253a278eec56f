package kafka

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *KafkaClient and Client from a supplied *kafka.Config
// and closes the client on stop.
var FXModule = fx.Module("kafka",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(k *KafkaClient) Client { return k },
			fx.As(new(Client)),
		),
	),
	fx.Invoke(RegisterKafkaLifecycle),
)

type KafkaParams struct {
	fx.In

	Config *Config
	Logger Logger `optional:"true"`
}

func NewClientWithDI(p KafkaParams) (*KafkaClient, error) {
	return NewClient(p.Config, p.Logger)
}

func RegisterKafkaLifecycle(lc fx.Lifecycle, client *KafkaClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			client.GracefulShutdown()
			return nil
		},
	})
}
