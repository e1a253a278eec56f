package kafka

import (
	"context"
	"sync"
)

// Client is implemented by *KafkaClient.
type Client interface {
	// Publish writes one message to the configured topic.
	Publish(ctx context.Context, key string, value []byte, headers ...map[string]string) error

	// Consume delivers messages of the configured topic and group until
	// ctx is done or the client shuts down. Offsets are only committed
	// through Message.CommitMsg.
	Consume(ctx context.Context, wg *sync.WaitGroup) <-chan Message

	GracefulShutdown()
}

// Message is a consumed record.
type Message interface {
	// CommitMsg commits the offset of this message for the group.
	CommitMsg(ctx context.Context) error

	Key() string
	Body() []byte
	Header() map[string]string
}

// Logger is the subset of logger.Logger the client uses.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

type nopLogger struct{}

func (nopLogger) InfoWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (nopLogger) WarnWithContext(context.Context, string, error, ...map[string]interface{})  {}
func (nopLogger) ErrorWithContext(context.Context, string, error, ...map[string]interface{}) {}
