package rabbit

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitClient manages a connection and channel to RabbitMQ and
// re-establishes both when the broker drops them.
type RabbitClient struct {
	cfg    *Config
	logger Logger

	// mu protects conn and channel, which are swapped on reconnect.
	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel

	shutdownSignal    chan struct{}
	closeShutdownOnce sync.Once
}

var _ Client = (*RabbitClient)(nil)

// NewClient connects to RabbitMQ and sets up the channel. Consumers also
// declare their exchange, queue and dead-letter topology.
func NewClient(cfg *Config, log Logger) (*RabbitClient, error) {
	if log == nil {
		log = nopLogger{}
	}

	conn, err := newConnection(cfg)
	if err != nil {
		return nil, TranslateError(err)
	}

	ch, err := connectToChannel(conn, cfg)
	if err != nil {
		_ = conn.Close()
		return nil, TranslateError(err)
	}

	log.InfoWithContext(context.Background(), "Connected to RabbitMQ", nil, map[string]interface{}{
		"host":  cfg.Host,
		"queue": cfg.QueueName,
	})
	return &RabbitClient{
		cfg:            cfg,
		logger:         log,
		conn:           conn,
		channel:        ch,
		shutdownSignal: make(chan struct{}),
	}, nil
}

// connectToChannel opens a channel with publisher confirms. For consumers
// it declares the exchange, the optional dead-letter exchange and queue,
// the main queue and its binding, and applies the prefetch limit.
func connectToChannel(conn *amqp.Connection, cfg *Config) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	if err = ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if !cfg.IsConsumer {
		return ch, nil
	}

	err = ch.ExchangeDeclare(
		cfg.ExchangeName,
		cfg.ExchangeType,
		true,  // Durable
		false, // AutoDelete
		false, // Internal
		false, // NoWait
		nil,   // Arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queueArgs := amqp.Table{}
	if cfg.DeadLetterExchange != "" {
		if err = ch.ExchangeDeclare(cfg.DeadLetterExchange, "direct", true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("failed to declare dead letter exchange: %w", err)
		}
		if _, err = ch.QueueDeclare(cfg.DeadLetterQueue, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("failed to declare dead letter queue: %w", err)
		}
		if err = ch.QueueBind(cfg.DeadLetterQueue, cfg.DeadLetterRoutingKey, cfg.DeadLetterExchange, false, nil); err != nil {
			return nil, fmt.Errorf("failed to bind dead letter queue: %w", err)
		}

		queueArgs["x-dead-letter-exchange"] = cfg.DeadLetterExchange
		queueArgs["x-dead-letter-routing-key"] = cfg.DeadLetterRoutingKey
		if cfg.DeadLetterTTL > 0 {
			queueArgs["x-message-ttl"] = cfg.DeadLetterTTL.Milliseconds()
		}
	}

	_, err = ch.QueueDeclare(
		cfg.QueueName,
		true,      // Durable
		false,     // AutoDelete
		false,     // Exclusive
		false,     // NoWait
		queueArgs, // Arguments including dead letter config
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err = ch.QueueBind(cfg.QueueName, cfg.RoutingKey, cfg.ExchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	if cfg.PrefetchCount > 0 {
		if err = ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			return nil, fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	return ch, nil
}

// RetryConnection waits for the connection to close and reconnects until
// it succeeds or the client shuts down. Run it in its own goroutine.
func (rb *RabbitClient) RetryConnection() {
	ctx := context.Background()
	for {
		errChan := make(chan *amqp.Error, 1)
		rb.mu.RLock()
		rb.conn.NotifyClose(errChan)
		rb.mu.RUnlock()

		select {
		case <-rb.shutdownSignal:
			return
		case err := <-errChan:
			rb.logger.WarnWithContext(ctx, "RabbitMQ connection closed, reconnecting", err, nil)
		}

		for {
			select {
			case <-rb.shutdownSignal:
				return
			default:
			}

			if err := rb.reconnect(); err != nil {
				rb.logger.ErrorWithContext(ctx, "RabbitMQ reconnection failed", err, nil)
				time.Sleep(rb.cfg.ReconnectDelay)
				continue
			}
			rb.logger.InfoWithContext(ctx, "Reconnected to RabbitMQ", nil, nil)
			break
		}
	}
}

func (rb *RabbitClient) reconnect() error {
	conn, err := newConnection(rb.cfg)
	if err != nil {
		return err
	}
	ch, err := connectToChannel(conn, rb.cfg)
	if err != nil {
		_ = conn.Close()
		return err
	}

	rb.mu.Lock()
	rb.conn, rb.channel = conn, ch
	rb.mu.Unlock()
	return nil
}

// newConnection dials the broker. TLS is used when enabled, with a client
// certificate when UseCert is set. Heartbeats are sent every 2 seconds so
// dropped connections are noticed quickly.
func newConnection(cfg *Config) (*amqp.Connection, error) {
	amqpCfg := amqp.Config{Heartbeat: 2 * time.Second}

	if cfg.IsSSLEnabled {
		tlsConfig := &tls.Config{ServerName: cfg.ServerName}
		if cfg.CACertPath != "" {
			caCert, err := os.ReadFile(cfg.CACertPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read CA cert: %w", err)
			}
			pool := x509.NewCertPool()
			pool.AppendCertsFromPEM(caCert)
			tlsConfig.RootCAs = pool
		}
		if cfg.UseCert {
			cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
			if err != nil {
				return nil, fmt.Errorf("failed to load client cert: %w", err)
			}
			tlsConfig.Certificates = []tls.Certificate{cert}
		}
		amqpCfg.TLSClientConfig = tlsConfig
	}

	conn, err := amqp.DialConfig(cfg.URL(), amqpCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return conn, nil
}

// GracefulShutdown stops reconnecting and consuming, then closes the
// channel and the connection.
func (rb *RabbitClient) GracefulShutdown() {
	rb.closeShutdownOnce.Do(func() {
		close(rb.shutdownSignal)
	})

	rb.mu.Lock()
	defer rb.mu.Unlock()

	ctx := context.Background()
	rb.logger.InfoWithContext(ctx, "Shutting down RabbitMQ client", nil, nil)
	if rb.channel != nil {
		if err := rb.channel.Close(); err != nil {
			rb.logger.WarnWithContext(ctx, "Failed to close rabbit channel", err, nil)
		}
	}
	if rb.conn != nil && !rb.conn.IsClosed() {
		if err := rb.conn.Close(); err != nil {
			rb.logger.WarnWithContext(ctx, "Failed to close rabbit connection", err, nil)
		}
	}
}

type nopLogger struct{}

func (nopLogger) InfoWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (nopLogger) WarnWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (nopLogger) ErrorWithContext(context.Context, string, error, ...map[string]interface{}) {}
