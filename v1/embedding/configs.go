package embedding

import (
	"fmt"
	"time"
)

// Supported embedding providers.
const (
	// ProviderOpenAI talks to any OpenAI-compatible /embeddings endpoint.
	ProviderOpenAI = "openai"
	// ProviderHash derives vectors from the text itself. No network access.
	ProviderHash = "hash"
)

// Config holds the settings of the embedding client.
//
// Endpoint must point to the root of the OpenAI-compatible inference
// service (no /embeddings appended). An empty endpoint means api.openai.com.
type Config struct {
	Provider string `yaml:"provider" envconfig:"EMBEDDING_PROVIDER"`

	// Inference endpoint and auth
	Endpoint string `yaml:"endpoint" envconfig:"EMBEDDING_ENDPOINT"`
	APIKey   string `yaml:"api_key" envconfig:"EMBEDDING_API_KEY"`
	Model    string `yaml:"model" envconfig:"EMBEDDING_MODEL"`

	// Length of every produced vector.
	Dimension int `yaml:"dimension" envconfig:"EMBEDDING_DIMENSION"`

	// Ask the provider to shorten vectors to Dimension. Only models that
	// support the "dimensions" request field accept this.
	RequestDimensions bool `yaml:"request_dimensions" envconfig:"EMBEDDING_REQUEST_DIMENSIONS"`

	// Maximum number of texts sent in one request.
	BatchSize int `yaml:"batch_size" envconfig:"EMBEDDING_BATCH_SIZE"`

	HTTPTimeout   time.Duration `yaml:"http_timeout" envconfig:"EMBEDDING_HTTP_TIMEOUT"`
	RetryAttempts uint          `yaml:"retry_attempts" envconfig:"EMBEDDING_RETRY_ATTEMPTS"`
	RetryDelay    time.Duration `yaml:"retry_delay" envconfig:"EMBEDDING_RETRY_DELAY"`

	// Path of the bbolt file caching computed vectors. Empty disables the cache.
	CachePath string `yaml:"cache_path" envconfig:"EMBEDDING_CACHE_PATH"`
}

// DefaultConfig returns a config for the offline hash provider with 1024
// dimensions, the size collections are created with by default.
func DefaultConfig() *Config {
	return &Config{
		Provider:      ProviderHash,
		Model:         "text-embedding-3-small",
		Dimension:     1024,
		BatchSize:     64,
		HTTPTimeout:   30 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    500 * time.Millisecond,
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderHash:
	case ProviderOpenAI:
		if c.Model == "" {
			return fmt.Errorf("embedding: missing EMBEDDING_MODEL")
		}
	default:
		return fmt.Errorf("embedding: unknown provider %q", c.Provider)
	}
	if c.Dimension < 1 {
		return fmt.Errorf("embedding: dimension must be positive, got %d", c.Dimension)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("embedding: batch size must be positive, got %d", c.BatchSize)
	}
	return nil
}
