package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/Aleph-Alpha/scholar-index/v1/api"
	"github.com/Aleph-Alpha/scholar-index/v1/embedding"
	"github.com/Aleph-Alpha/scholar-index/v1/ingest"
	"github.com/Aleph-Alpha/scholar-index/v1/kafka"
	"github.com/Aleph-Alpha/scholar-index/v1/ledger"
	"github.com/Aleph-Alpha/scholar-index/v1/logger"
	"github.com/Aleph-Alpha/scholar-index/v1/metrics"
	"github.com/Aleph-Alpha/scholar-index/v1/minio"
	"github.com/Aleph-Alpha/scholar-index/v1/qdrant"
	"github.com/Aleph-Alpha/scholar-index/v1/rabbit"
	"github.com/Aleph-Alpha/scholar-index/v1/tracer"
)

// Index backends.
const (
	BackendQdrant = "qdrant"
	BackendMemory = "memory"
)

const serviceName = "scholar-index"

// Config aggregates the settings of every component.
type Config struct {
	// Backend selects the vector index: qdrant or memory.
	Backend string `yaml:"backend" envconfig:"INDEX_BACKEND"`

	Logger  logger.Config  `yaml:"logger" ignored:"true"`
	Metrics metrics.Config `yaml:"metrics" ignored:"true"`
	Tracer  tracer.Config  `yaml:"tracer" ignored:"true"`

	Qdrant    *qdrant.Config    `yaml:"qdrant" ignored:"true"`
	API       *api.Config       `yaml:"api" ignored:"true"`
	Embedding *embedding.Config `yaml:"embedding" ignored:"true"`
	Ingest    *ingest.Config    `yaml:"ingest" ignored:"true"`
	Ledger    *ledger.Config    `yaml:"ledger" ignored:"true"`
	Rabbit    *rabbit.Config    `yaml:"rabbit" ignored:"true"`
	Kafka     *kafka.Config     `yaml:"kafka" ignored:"true"`
	Minio     *minio.Config     `yaml:"minio" ignored:"true"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend: BackendQdrant,
		Logger: logger.Config{
			Level:       logger.Info,
			ServiceName: serviceName,
		},
		Metrics: metrics.Config{
			Address:                 metrics.DefaultMetricsAddress,
			EnableDefaultCollectors: true,
			Namespace:               "scholar_index",
			ServiceName:             serviceName,
		},
		Tracer: tracer.Config{
			ServiceName: serviceName,
			AppEnv:      "development",
		},
		Qdrant:    qdrant.DefaultConfig(),
		API:       api.DefaultConfig(),
		Embedding: embedding.DefaultConfig(),
		Ingest:    ingest.DefaultConfig(),
		Ledger:    ledger.DefaultConfig(),
		Rabbit:    rabbit.DefaultConfig(),
		Kafka:     kafka.DefaultConfig(),
		Minio:     minio.DefaultConfig(),
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty), the .env file at envFile (if it exists) and finally
// the process environment. Later sources override earlier ones; variables
// already set in the environment win over .env entries.
func Load(path, envFile string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		cfg.fillMissing()
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	if err := cfg.processEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillMissing restores defaults for sections a YAML file set to null.
func (c *Config) fillMissing() {
	d := DefaultConfig()
	if c.Qdrant == nil {
		c.Qdrant = d.Qdrant
	}
	if c.API == nil {
		c.API = d.API
	}
	if c.Embedding == nil {
		c.Embedding = d.Embedding
	}
	if c.Ingest == nil {
		c.Ingest = d.Ingest
	}
	if c.Ledger == nil {
		c.Ledger = d.Ledger
	}
	if c.Rabbit == nil {
		c.Rabbit = d.Rabbit
	}
	if c.Kafka == nil {
		c.Kafka = d.Kafka
	}
	if c.Minio == nil {
		c.Minio = d.Minio
	}
}

// processEnv applies environment overrides. Every section carries its full
// variable names in envconfig tags, so sections are processed one by one
// without a prefix.
func (c *Config) processEnv() error {
	sections := []interface{}{
		c, &c.Logger, &c.Metrics, &c.Tracer,
		c.Qdrant, c.API, c.Embedding, c.Ingest, c.Ledger, c.Rabbit, c.Kafka, c.Minio,
	}
	for _, s := range sections {
		if err := envconfig.Process("", s); err != nil {
			return fmt.Errorf("config: environment: %w", err)
		}
	}
	return nil
}

// Validate checks the sections the configured components will use. The
// queue and bucket clients are only checked when the ingest source needs
// them.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendQdrant:
		if c.Qdrant.Endpoint == "" {
			return errors.New("config: qdrant endpoint is required")
		}
		if c.Qdrant.Port <= 0 || c.Qdrant.Port > 65535 {
			return fmt.Errorf("config: invalid qdrant port %d", c.Qdrant.Port)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config: unknown index backend %q", c.Backend)
	}

	if c.API.Address == "" {
		return errors.New("config: api address is required")
	}
	if c.API.MaxBodyBytes <= 0 {
		return errors.New("config: api max body bytes must be positive")
	}

	if err := c.Embedding.Validate(); err != nil {
		return err
	}
	if err := c.Ingest.Validate(); err != nil {
		return err
	}
	if c.Ledger.Enabled {
		if err := c.Ledger.Validate(); err != nil {
			return err
		}
	}

	switch c.Ingest.Source {
	case ingest.SourceKafka:
		return c.Kafka.Validate()
	case ingest.SourceMinio:
		return c.Minio.Validate()
	case ingest.SourceRabbit:
		if c.Rabbit.Host == "" || c.Rabbit.QueueName == "" {
			return errors.New("config: rabbit host and queue are required")
		}
	}
	return nil
}
