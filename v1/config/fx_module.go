package config

import "go.uber.org/fx"

// Supply puts every configuration section into the fx graph, by value for
// logger, metrics and tracer and by pointer for the rest.
func Supply(cfg *Config) fx.Option {
	return fx.Supply(
		cfg,
		cfg.Logger,
		cfg.Metrics,
		cfg.Tracer,
		cfg.Qdrant,
		cfg.API,
		cfg.Embedding,
		cfg.Ingest,
		cfg.Ledger,
		cfg.Rabbit,
		cfg.Kafka,
		cfg.Minio,
	)
}
