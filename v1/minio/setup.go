package minio

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient wraps minio.Client with bucket checks and reconnection.
type MinioClient struct {
	// client is swapped on reconnect.
	client atomic.Pointer[minio.Client]

	cfg    Config
	logger Logger

	shutdownSignal    chan struct{}
	reconnectSignal   chan error
	closeShutdownOnce sync.Once
}

// NewClient connects, validates the credentials against the bucket and
// creates the bucket when AllowBucketCreation is set.
func NewClient(cfg *Config, log Logger) (*MinioClient, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = nopLogger{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := connectToMinio(*cfg)
	if err != nil {
		return nil, err
	}

	m := &MinioClient{
		cfg:             *cfg,
		logger:          log,
		shutdownSignal:  make(chan struct{}),
		reconnectSignal: make(chan error, 1),
	}
	m.client.Store(client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := m.ensureBucketExists(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func connectToMinio(cfg Config) (*minio.Client, error) {
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
}

// validateConnection checks the bucket rather than listing all buckets so
// the credentials do not need ListAllMyBuckets.
func (m *MinioClient) validateConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	c := m.client.Load()
	if c == nil {
		return ErrConnectionFailed
	}
	_, err := c.BucketExists(ctx, m.cfg.BucketName)
	return TranslateError(err)
}

func (m *MinioClient) ensureBucketExists(ctx context.Context) error {
	c := m.client.Load()
	if c == nil {
		return ErrConnectionFailed
	}

	exists, err := c.BucketExists(ctx, m.cfg.BucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.cfg.BucketName, TranslateError(err))
	}
	if exists {
		return nil
	}
	if !m.cfg.AllowBucketCreation {
		return fmt.Errorf("bucket %s: %w", m.cfg.BucketName, ErrBucketNotFound)
	}

	m.logger.InfoWithContext(ctx, "Bucket does not exist, creating it", nil, map[string]interface{}{
		"bucket": m.cfg.BucketName,
		"region": m.cfg.Region,
	})
	if err := c.MakeBucket(ctx, m.cfg.BucketName, minio.MakeBucketOptions{Region: m.cfg.Region}); err != nil {
		return TranslateError(err)
	}
	return nil
}

// MonitorConnection checks the bucket every HealthCheckInterval and hands
// failures to RetryConnection.
func (m *MinioClient) MonitorConnection(ctx context.Context) {
	interval := m.cfg.HealthCheckInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.validateConnection(ctx); err != nil {
				m.logger.ErrorWithContext(ctx, "MinIO connection health check failed", err, map[string]interface{}{
					"endpoint": m.cfg.Endpoint,
				})
				select {
				case m.reconnectSignal <- err:
				default:
				}
			}
		case <-m.shutdownSignal:
			return
		case <-ctx.Done():
			return
		}
	}
}

// RetryConnection replaces the client after a failed health check until a
// new one passes validation.
func (m *MinioClient) RetryConnection(ctx context.Context) {
	for {
		select {
		case <-m.shutdownSignal:
			return
		case <-ctx.Done():
			return
		case err := <-m.reconnectSignal:
			m.logger.WarnWithContext(ctx, "MinIO connection issue detected, reconnecting", err, map[string]interface{}{
				"endpoint": m.cfg.Endpoint,
			})
			if !m.reconnect(ctx) {
				return
			}
		}
	}
}

// reconnect returns false when it was interrupted by shutdown.
func (m *MinioClient) reconnect(ctx context.Context) bool {
	for {
		client, err := connectToMinio(m.cfg)
		if err == nil {
			attemptCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			_, err = client.BucketExists(attemptCtx, m.cfg.BucketName)
			cancel()
		}
		if err == nil {
			m.client.Store(client)
			m.logger.InfoWithContext(ctx, "Reconnected to MinIO", nil, map[string]interface{}{
				"endpoint": m.cfg.Endpoint,
			})
			return true
		}

		m.logger.ErrorWithContext(ctx, "MinIO reconnection failed", err, map[string]interface{}{
			"will_retry_in": "1s",
		})
		select {
		case <-time.After(time.Second):
		case <-m.shutdownSignal:
			return false
		case <-ctx.Done():
			return false
		}
	}
}

// GracefulShutdown stops the monitor and retry loops. minio.Client holds
// no connection that needs closing.
func (m *MinioClient) GracefulShutdown() {
	m.closeShutdownOnce.Do(func() {
		close(m.shutdownSignal)
	})
}
