// Package rabbit is a small RabbitMQ client built on
// github.com/rabbitmq/amqp091-go, used to receive article records for
// ingestion and to publish them.
//
// A consumer declares a durable exchange and queue and, when
// DeadLetterExchange is set, a dead-letter exchange and queue that
// receive rejected messages:
//
//	client, err := rabbit.NewClient(cfg, log)
//	wg := &sync.WaitGroup{}
//	for msg := range client.Consume(ctx, wg) {
//	    if err := handle(msg.Body()); err != nil {
//	        _ = msg.NackMsg(false) // dead-lettered
//	        continue
//	    }
//	    _ = msg.AckMsg()
//	}
//
// The connection uses 2 second heartbeats. RetryConnection (started by
// FXModule) reconnects after the broker drops the connection, and Consume
// resumes on the new channel.
//
// Publish waits for the broker's confirmation. TranslateError maps AMQP
// reply codes onto package sentinels such as ErrAccessDenied or
// ErrNotFound.
package rabbit
