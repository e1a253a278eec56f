package rabbit

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds the connection and topology settings of the RabbitMQ
// client. Consumers declare the exchange, the queue and its binding;
// publishers only open a channel.
type Config struct {
	Host     string `yaml:"host" envconfig:"RABBIT_HOST"`
	Port     uint   `yaml:"port" envconfig:"RABBIT_PORT"`
	User     string `yaml:"user" envconfig:"RABBIT_USER"`
	Password string `yaml:"password" envconfig:"RABBIT_PASSWORD"`
	VHost    string `yaml:"vhost" envconfig:"RABBIT_VHOST"`

	// TLS. With UseCert the client presents ClientCertPath/ClientKeyPath.
	IsSSLEnabled   bool   `yaml:"ssl_enabled" envconfig:"RABBIT_SSL_ENABLED"`
	UseCert        bool   `yaml:"use_cert" envconfig:"RABBIT_USE_CERT"`
	CACertPath     string `yaml:"ca_cert_path" envconfig:"RABBIT_CA_CERT_PATH"`
	ClientCertPath string `yaml:"client_cert_path" envconfig:"RABBIT_CLIENT_CERT_PATH"`
	ClientKeyPath  string `yaml:"client_key_path" envconfig:"RABBIT_CLIENT_KEY_PATH"`
	ServerName     string `yaml:"server_name" envconfig:"RABBIT_SERVER_NAME"`

	ExchangeName  string `yaml:"exchange_name" envconfig:"RABBIT_EXCHANGE_NAME"`
	ExchangeType  string `yaml:"exchange_type" envconfig:"RABBIT_EXCHANGE_TYPE"`
	RoutingKey    string `yaml:"routing_key" envconfig:"RABBIT_ROUTING_KEY"`
	QueueName     string `yaml:"queue_name" envconfig:"RABBIT_QUEUE_NAME"`
	PrefetchCount int    `yaml:"prefetch_count" envconfig:"RABBIT_PREFETCH_COUNT"`
	IsConsumer    bool   `yaml:"is_consumer" envconfig:"RABBIT_IS_CONSUMER"`
	ContentType   string `yaml:"content_type" envconfig:"RABBIT_CONTENT_TYPE"`

	// Dead lettering is set up when DeadLetterExchange is non-empty.
	// Rejected messages are routed there; with a positive DeadLetterTTL,
	// messages left unconsumed that long are moved as well.
	DeadLetterExchange   string        `yaml:"dead_letter_exchange" envconfig:"RABBIT_DEAD_LETTER_EXCHANGE"`
	DeadLetterQueue      string        `yaml:"dead_letter_queue" envconfig:"RABBIT_DEAD_LETTER_QUEUE"`
	DeadLetterRoutingKey string        `yaml:"dead_letter_routing_key" envconfig:"RABBIT_DEAD_LETTER_ROUTING_KEY"`
	DeadLetterTTL        time.Duration `yaml:"dead_letter_ttl" envconfig:"RABBIT_DEAD_LETTER_TTL"`

	// Wait between reconnection attempts.
	ReconnectDelay time.Duration `yaml:"reconnect_delay" envconfig:"RABBIT_RECONNECT_DELAY"`
}

// DefaultConfig returns a consumer of the "articles" queue on a local broker.
func DefaultConfig() *Config {
	return &Config{
		Host:                 "localhost",
		Port:                 5672,
		User:                 "guest",
		Password:             "guest",
		ExchangeName:         "articles",
		ExchangeType:         "direct",
		RoutingKey:           "articles",
		QueueName:            "articles",
		PrefetchCount:        32,
		IsConsumer:           true,
		ContentType:          "application/json",
		DeadLetterExchange:   "articles-dlx",
		DeadLetterQueue:      "articles-dlq",
		DeadLetterRoutingKey: "articles",
		ReconnectDelay:       time.Second,
	}
}

// URL renders the AMQP URL, amqps:// when TLS is enabled.
func (c *Config) URL() string {
	scheme := "amqp"
	if c.IsSSLEnabled {
		scheme = "amqps"
	}
	u := url.URL{
		Scheme: scheme,
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.VHost,
	}
	return u.String()
}
