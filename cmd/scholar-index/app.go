package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Aleph-Alpha/scholar-index/v1/catalog"
	"github.com/Aleph-Alpha/scholar-index/v1/config"
	"github.com/Aleph-Alpha/scholar-index/v1/logger"
	"github.com/Aleph-Alpha/scholar-index/v1/qdrant"
	"github.com/Aleph-Alpha/scholar-index/v1/tracer"
	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

// coreOptions wires configuration, logging, tracing, the index backend and
// the catalog, which every command needs.
func coreOptions(cfg *config.Config, quiet bool) fx.Option {
	opts := []fx.Option{
		config.Supply(cfg),
		logger.FXModule,
		tracer.FXModule,
		indexModule(cfg),
		catalog.FXModule,
	}
	if quiet {
		opts = append(opts, fx.NopLogger)
	} else {
		opts = append(opts, fx.WithLogger(func(l *logger.LoggerClient) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap}
		}))
	}
	return fx.Options(opts...)
}

func indexModule(cfg *config.Config) fx.Option {
	if cfg.Backend == config.BackendMemory {
		return fx.Provide(
			fx.Annotate(vectordb.NewMemoryIndex, fx.As(new(vectordb.Index))),
		)
	}
	return qdrant.FXModule
}
