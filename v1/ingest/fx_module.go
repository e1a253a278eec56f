package ingest

import (
	"fmt"
	"os"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/scholar-index/v1/kafka"
	"github.com/Aleph-Alpha/scholar-index/v1/minio"
	"github.com/Aleph-Alpha/scholar-index/v1/rabbit"
)

// FXModule provides *Pipeline and the Source selected by Config.Source.
// The matching client module (rabbit, kafka or minio) must be part of the
// application for queue and bucket sources.
var FXModule = fx.Module("ingest",
	fx.Provide(
		NewPipeline,
		NewSource,
	),
)

type SourceParams struct {
	fx.In

	Config *Config
	Rabbit rabbit.Client `optional:"true"`
	Kafka  kafka.Client  `optional:"true"`
	Minio  minio.Client  `optional:"true"`
}

// NewSource builds the configured Source.
func NewSource(p SourceParams) (Source, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Source {
	case SourceFile:
		src := &FileSource{Root: cfg.Root, Pattern: cfg.Pattern}
		if cfg.ShowProgress {
			src.Progress = os.Stderr
		}
		return src, nil
	case SourceRabbit:
		if p.Rabbit == nil {
			return nil, fmt.Errorf("ingest: source %q needs a rabbit client", cfg.Source)
		}
		return &RabbitSource{Client: p.Rabbit}, nil
	case SourceKafka:
		if p.Kafka == nil {
			return nil, fmt.Errorf("ingest: source %q needs a kafka client", cfg.Source)
		}
		return &KafkaSource{Client: p.Kafka}, nil
	case SourceMinio:
		if p.Minio == nil {
			return nil, fmt.Errorf("ingest: source %q needs a minio client", cfg.Source)
		}
		return &MinioSource{Client: p.Minio, Prefix: cfg.Prefix}, nil
	default:
		return nil, fmt.Errorf("ingest: unknown source %q", cfg.Source)
	}
}
