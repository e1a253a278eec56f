package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// KafkaClient publishes to or consumes from a single topic, depending on
// Config.IsConsumer.
type KafkaClient struct {
	cfg    Config
	logger Logger

	writer *kafka.Writer
	reader *kafka.Reader

	shutdownSignal    chan struct{}
	closeShutdownOnce sync.Once
}

// NewClient validates cfg and creates the reader or writer. kafka-go
// connects lazily, so no broker is contacted here.
func NewClient(cfg *Config, log Logger) (*KafkaClient, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = nopLogger{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := *cfg
	if c.MinBytes == 0 {
		c.MinBytes = DefaultMinBytes
	}
	if c.MaxBytes == 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.MaxWait == 0 {
		c.MaxWait = DefaultMaxWait
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.BatchTimeout == 0 {
		c.BatchTimeout = DefaultBatchTimeout
	}

	dialer, err := newDialer(c)
	if err != nil {
		return nil, err
	}

	k := &KafkaClient{
		cfg:            c,
		logger:         log,
		shutdownSignal: make(chan struct{}),
	}
	if c.IsConsumer {
		k.reader = createReader(c, dialer, k.errorLogger())
	} else {
		k.writer = createWriter(c, dialer, k.errorLogger())
	}
	return k, nil
}

func (k *KafkaClient) errorLogger() kafka.LoggerFunc {
	return func(msg string, args ...interface{}) {
		k.logger.ErrorWithContext(context.Background(), "Kafka internal error", fmt.Errorf(msg, args...), nil)
	}
}

func newDialer(cfg Config) (*kafka.Dialer, error) {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if cfg.TLSEnabled {
		tlsConfig, err := createTLSConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		dialer.TLS = tlsConfig
	}
	if cfg.SASLMechanism != "" {
		mechanism, err := createSASLMechanism(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
		dialer.SASLMechanism = mechanism
	}
	return dialer, nil
}

func createWriter(cfg Config, dialer *kafka.Dialer, errLog kafka.LoggerFunc) *kafka.Writer {
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:          cfg.Brokers,
		Topic:            cfg.Topic,
		Dialer:           dialer,
		Balancer:         &kafka.Hash{},
		MaxAttempts:      cfg.MaxAttempts,
		WriteTimeout:     cfg.WriteTimeout,
		BatchTimeout:     cfg.BatchTimeout,
		RequiredAcks:     cfg.RequiredAcks,
		CompressionCodec: compressionCodec(cfg.CompressionCodec),
		ErrorLogger:      errLog,
	})
}

// createReader builds a group reader with auto-commit disabled.
func createReader(cfg Config, dialer *kafka.Dialer, errLog kafka.LoggerFunc) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		Dialer:         dialer,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		MaxWait:        cfg.MaxWait,
		StartOffset:    cfg.startOffset(),
		CommitInterval: 0,
		ErrorLogger:    errLog,
	})
}

func compressionCodec(name string) kafka.CompressionCodec {
	switch name {
	case "gzip":
		return &compress.GzipCodec
	case "snappy":
		return &compress.SnappyCodec
	case "lz4":
		return &compress.Lz4Codec
	case "zstd":
		return &compress.ZstdCodec
	}
	return nil
}

func createTLSConfig(cfg Config) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // opt-in for test clusters
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, errors.New("failed to parse CA cert")
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	return tlsConfig, nil
}

func createSASLMechanism(cfg Config) (sasl.Mechanism, error) {
	switch cfg.SASLMechanism {
	case "PLAIN":
		return plain.Mechanism{Username: cfg.SASLUsername, Password: cfg.SASLPassword}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.SASLUsername, cfg.SASLPassword)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.SASLUsername, cfg.SASLPassword)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.SASLMechanism)
	}
}

// GracefulShutdown stops Consume and closes the reader or writer. It is
// safe to call more than once.
func (k *KafkaClient) GracefulShutdown() {
	k.closeShutdownOnce.Do(func() {
		close(k.shutdownSignal)

		ctx := context.Background()
		k.logger.InfoWithContext(ctx, "Shutting down Kafka client", nil, map[string]interface{}{
			"topic": k.cfg.Topic,
		})
		if k.reader != nil {
			if err := k.reader.Close(); err != nil {
				k.logger.WarnWithContext(ctx, "Failed to close kafka reader", err, nil)
			}
		}
		if k.writer != nil {
			if err := k.writer.Close(); err != nil {
				k.logger.WarnWithContext(ctx, "Failed to close kafka writer", err, nil)
			}
		}
	})
}
