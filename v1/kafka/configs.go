package kafka

import (
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	DefaultMinBytes     = 1
	DefaultMaxBytes     = 10e6
	DefaultMaxWait      = 500 * time.Millisecond
	DefaultMaxAttempts  = 10
	DefaultWriteTimeout = 10 * time.Second
	DefaultBatchTimeout = 50 * time.Millisecond
)

// Config holds the connection and topic settings. Brokers is read from a
// comma separated KAFKA_BROKERS.
type Config struct {
	Brokers    []string `yaml:"brokers" envconfig:"KAFKA_BROKERS"`
	Topic      string   `yaml:"topic" envconfig:"KAFKA_TOPIC"`
	GroupID    string   `yaml:"group_id" envconfig:"KAFKA_GROUP_ID"`
	IsConsumer bool     `yaml:"is_consumer" envconfig:"KAFKA_IS_CONSUMER"`

	// StartOffset is "first" or "last"; it only applies to a group
	// without committed offsets.
	StartOffset string        `yaml:"start_offset" envconfig:"KAFKA_START_OFFSET"`
	MinBytes    int           `yaml:"min_bytes" envconfig:"KAFKA_MIN_BYTES"`
	MaxBytes    int           `yaml:"max_bytes" envconfig:"KAFKA_MAX_BYTES"`
	MaxWait     time.Duration `yaml:"max_wait" envconfig:"KAFKA_MAX_WAIT"`

	RequiredAcks     int           `yaml:"required_acks" envconfig:"KAFKA_REQUIRED_ACKS"`
	MaxAttempts      int           `yaml:"max_attempts" envconfig:"KAFKA_MAX_ATTEMPTS"`
	WriteTimeout     time.Duration `yaml:"write_timeout" envconfig:"KAFKA_WRITE_TIMEOUT"`
	BatchTimeout     time.Duration `yaml:"batch_timeout" envconfig:"KAFKA_BATCH_TIMEOUT"`
	CompressionCodec string        `yaml:"compression_codec" envconfig:"KAFKA_COMPRESSION_CODEC"`

	TLSEnabled         bool   `yaml:"tls_enabled" envconfig:"KAFKA_TLS_ENABLED"`
	CACertPath         string `yaml:"ca_cert_path" envconfig:"KAFKA_CA_CERT_PATH"`
	ClientCertPath     string `yaml:"client_cert_path" envconfig:"KAFKA_CLIENT_CERT_PATH"`
	ClientKeyPath      string `yaml:"client_key_path" envconfig:"KAFKA_CLIENT_KEY_PATH"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" envconfig:"KAFKA_INSECURE_SKIP_VERIFY"`

	// SASLMechanism is empty, PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512.
	SASLMechanism string `yaml:"sasl_mechanism" envconfig:"KAFKA_SASL_MECHANISM"`
	SASLUsername  string `yaml:"sasl_username" envconfig:"KAFKA_SASL_USERNAME"`
	SASLPassword  string `yaml:"sasl_password" envconfig:"KAFKA_SASL_PASSWORD"`
}

func DefaultConfig() *Config {
	return &Config{
		Brokers:      []string{"localhost:9092"},
		Topic:        "articles",
		GroupID:      "scholar-index",
		IsConsumer:   true,
		StartOffset:  "first",
		MinBytes:     DefaultMinBytes,
		MaxBytes:     DefaultMaxBytes,
		MaxWait:      DefaultMaxWait,
		RequiredAcks: int(kafka.RequireAll),
		MaxAttempts:  DefaultMaxAttempts,
		WriteTimeout: DefaultWriteTimeout,
		BatchTimeout: DefaultBatchTimeout,
	}
}

// Validate reports the first inconsistency in the configuration.
func (c *Config) Validate() error {
	if len(c.Brokers) == 0 {
		return errors.New("kafka: at least one broker is required")
	}
	if c.Topic == "" {
		return errors.New("kafka: topic is required")
	}
	if c.IsConsumer && c.GroupID == "" {
		return errors.New("kafka: a consumer needs a group id")
	}
	switch c.StartOffset {
	case "", "first", "last":
	default:
		return fmt.Errorf("kafka: unknown start offset %q", c.StartOffset)
	}
	switch c.CompressionCodec {
	case "", "gzip", "snappy", "lz4", "zstd":
	default:
		return fmt.Errorf("kafka: unknown compression codec %q", c.CompressionCodec)
	}
	switch c.SASLMechanism {
	case "", "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
	default:
		return fmt.Errorf("kafka: unsupported SASL mechanism %q", c.SASLMechanism)
	}
	return nil
}

func (c *Config) startOffset() int64 {
	if c.StartOffset == "last" {
		return kafka.LastOffset
	}
	return kafka.FirstOffset
}
