package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/scholar-index/v1/api"
	"github.com/Aleph-Alpha/scholar-index/v1/embedding"
	"github.com/Aleph-Alpha/scholar-index/v1/ingest"
	"github.com/Aleph-Alpha/scholar-index/v1/logger"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, BackendQdrant, cfg.Backend)
	assert.Equal(t, ":8080", cfg.API.Address)
	assert.Equal(t, embedding.ProviderHash, cfg.Embedding.Provider)
	assert.Equal(t, 1024, cfg.Embedding.Dimension)
	assert.Equal(t, ingest.SourceFile, cfg.Ingest.Source)
	assert.False(t, cfg.Ledger.Enabled)
	assert.Equal(t, "scholar-index", cfg.Logger.ServiceName)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
backend: memory
logger:
  level: debug
api:
  address: ":9999"
embedding:
  dimension: 256
ingest:
  batch_size: 8
  concurrency: 2
kafka: null
`)
	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, logger.Debug, cfg.Logger.Level)
	assert.Equal(t, ":9999", cfg.API.Address)
	// Keys missing from the file keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.API.WriteTimeout)
	assert.Equal(t, 256, cfg.Embedding.Dimension)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 8, cfg.Ingest.BatchSize)
	require.NotNil(t, cfg.Kafka)
	assert.Equal(t, "articles", cfg.Kafka.Topic)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "api:\n  address: \":9999\"\n")
	t.Setenv("API_ADDRESS", ":7000")
	t.Setenv("INDEX_BACKEND", "memory")
	t.Setenv("QDRANT_ENDPOINT", "qdrant.internal")
	t.Setenv("INGEST_SOURCE", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("ZAP_LOGGER_LEVEL", "warning")

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.API.Address)
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, "qdrant.internal", cfg.Qdrant.Endpoint)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, logger.Warning, cfg.Logger.Level)
}

func TestLoadDotEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "EMBEDDING_DIMENSION=384\nINGEST_BATCH_SIZE=5\n")
	t.Setenv("INGEST_BATCH_SIZE", "7")
	t.Cleanup(func() { _ = os.Unsetenv("EMBEDDING_DIMENSION") })

	cfg, err := Load("", envFile)
	require.NoError(t, err)

	assert.Equal(t, 384, cfg.Embedding.Dimension)
	// The real environment wins over .env.
	assert.Equal(t, 7, cfg.Ingest.BatchSize)

	_, err = Load("", filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "api: [1, 2"), "")
	assert.Error(t, err)

	t.Setenv("API_MAX_BODY_BYTES", "lots")
	_, err = Load("", "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Backend = "faiss" }},
		{"qdrant endpoint", func(c *Config) { c.Qdrant.Endpoint = "" }},
		{"qdrant port", func(c *Config) { c.Qdrant.Port = 70000 }},
		{"api address", func(c *Config) { c.API.Address = "" }},
		{"body limit", func(c *Config) { c.API.MaxBodyBytes = 0 }},
		{"embedding", func(c *Config) { c.Embedding.Dimension = 0 }},
		{"ingest", func(c *Config) { c.Ingest.BatchSize = 0 }},
		{"ledger", func(c *Config) { c.Ledger.Enabled = true; c.Ledger.Host = "" }},
		{"kafka source", func(c *Config) { c.Ingest.Source = ingest.SourceKafka; c.Kafka.Topic = "" }},
		{"minio source", func(c *Config) { c.Ingest.Source = ingest.SourceMinio; c.Minio.BucketName = "" }},
		{"rabbit source", func(c *Config) { c.Ingest.Source = ingest.SourceRabbit; c.Rabbit.QueueName = "" }},
	}
	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	// An unused memory backend does not need a qdrant endpoint.
	cfg := DefaultConfig()
	cfg.Backend = BackendMemory
	cfg.Qdrant.Endpoint = ""
	assert.NoError(t, cfg.Validate())
}

func TestSupply(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Address = ":1234"

	var (
		apiCfg *api.Config
		logCfg logger.Config
	)
	app := fxtest.New(t,
		Supply(cfg),
		fx.Populate(&apiCfg, &logCfg),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Same(t, cfg.API, apiCfg)
	assert.Equal(t, cfg.Logger, logCfg)
}
