package rabbit

import (
	"context"
	"sync"
)

// Client provides a high-level interface for interacting with RabbitMQ.
//
// This interface is implemented by the concrete *RabbitClient type.
type Client interface {
	// Publish sends a message with optional headers to the configured
	// exchange and routing key.
	Publish(ctx context.Context, msg []byte, headers ...map[string]interface{}) error

	// Consume delivers messages of the configured queue until ctx is done
	// or the client shuts down. The channel is closed afterwards.
	Consume(ctx context.Context, wg *sync.WaitGroup) <-chan Message

	// GracefulShutdown closes the channel and the connection.
	GracefulShutdown()
}

// Message represents a consumed message.
type Message interface {
	// AckMsg acknowledges the message, removing it from the queue.
	AckMsg() error

	// NackMsg negatively acknowledges the message.
	// If requeue is true, the message is requeued; otherwise it is dead-lettered.
	NackMsg(requeue bool) error

	Body() []byte
	Header() map[string]interface{}
}

// Logger is the subset of logger.Logger the client uses.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
