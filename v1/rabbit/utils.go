package rabbit

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerMessage wraps an AMQP delivery.
type ConsumerMessage struct {
	delivery amqp.Delivery
}

// consumeQueue delivers messages of queueName on the returned channel.
// When the broker closes the delivery channel (e.g. after a reconnect)
// consumption is re-established on the current channel.
func (rb *RabbitClient) consumeQueue(ctx context.Context, wg *sync.WaitGroup, queueName string) <-chan Message {
	out := make(chan Message, 100)

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(out)

		for {
			select {
			case <-rb.shutdownSignal:
				return
			case <-ctx.Done():
				return
			default:
			}

			rb.mu.RLock()
			msgs, err := rb.channel.Consume(
				queueName,
				"",    // consumer
				false, // autoAck
				false, // exclusive
				false, // noLocal
				false, // noWait
				nil,   // args
			)
			rb.mu.RUnlock()

			if err != nil {
				rb.logger.ErrorWithContext(ctx, "Failed to establish consumer", err, map[string]interface{}{
					"queue": queueName,
				})
				select {
				case <-time.After(rb.cfg.ReconnectDelay):
				case <-ctx.Done():
					return
				case <-rb.shutdownSignal:
					return
				}
				continue
			}

			if !rb.forward(ctx, msgs, out) {
				return
			}
		}
	}()
	return out
}

// forward copies deliveries to out. It returns false when consumption
// should stop and true when msgs was closed and must be re-established.
func (rb *RabbitClient) forward(ctx context.Context, msgs <-chan amqp.Delivery, out chan<- Message) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-rb.shutdownSignal:
			return false
		case d, ok := <-msgs:
			if !ok {
				return true
			}
			select {
			case out <- &ConsumerMessage{delivery: d}:
			case <-ctx.Done():
				return false
			}
		}
	}
}

// Consume starts consuming the configured queue.
//
//	wg := &sync.WaitGroup{}
//	for msg := range client.Consume(ctx, wg) {
//	    handle(msg.Body())
//	    _ = msg.AckMsg()
//	}
func (rb *RabbitClient) Consume(ctx context.Context, wg *sync.WaitGroup) <-chan Message {
	return rb.consumeQueue(ctx, wg, rb.cfg.QueueName)
}

// Publish sends msg to the configured exchange and routing key and waits
// for the broker to confirm it. Headers can carry a trace carrier.
func (rb *RabbitClient) Publish(ctx context.Context, msg []byte, headers ...map[string]interface{}) error {
	var header amqp.Table
	if len(headers) > 0 {
		header = amqp.Table(headers[0])
	}

	rb.mu.RLock()
	confirm, err := rb.channel.PublishWithDeferredConfirmWithContext(ctx,
		rb.cfg.ExchangeName,
		rb.cfg.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			Headers:      header,
			ContentType:  rb.cfg.ContentType,
			DeliveryMode: amqp.Persistent,
			Body:         msg,
		},
	)
	rb.mu.RUnlock()
	if err != nil {
		return TranslateError(err)
	}

	ok, err := confirm.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("rabbit: publish to %s was not confirmed", rb.cfg.ExchangeName)
	}
	return nil
}

func (m *ConsumerMessage) AckMsg() error {
	return m.delivery.Ack(false)
}

func (m *ConsumerMessage) NackMsg(requeue bool) error {
	return m.delivery.Nack(false, requeue)
}

func (m *ConsumerMessage) Body() []byte {
	return m.delivery.Body
}

func (m *ConsumerMessage) Header() map[string]interface{} {
	return m.delivery.Headers
}
