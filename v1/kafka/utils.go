package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

var (
	// ErrNotConsumer is returned by operations that need a reader.
	ErrNotConsumer = errors.New("kafka: client is not configured as consumer")
	// ErrNotProducer is returned by Publish on a consumer client.
	ErrNotProducer = errors.New("kafka: client is not configured as producer")
)

// ConsumerMessage is a fetched record that has not been committed yet.
type ConsumerMessage struct {
	reader *kafka.Reader
	msg    kafka.Message
}

func (m *ConsumerMessage) CommitMsg(ctx context.Context) error {
	if m.reader == nil {
		return ErrNotConsumer
	}
	return m.reader.CommitMessages(ctx, m.msg)
}

func (m *ConsumerMessage) Key() string {
	return string(m.msg.Key)
}

func (m *ConsumerMessage) Body() []byte {
	return m.msg.Value
}

func (m *ConsumerMessage) Header() map[string]string {
	return headersToMap(m.msg.Headers)
}

// Consume fetches messages without committing them. A fetch error other
// than shutdown is logged and retried after a short pause.
func (k *KafkaClient) Consume(ctx context.Context, wg *sync.WaitGroup) <-chan Message {
	out := make(chan Message, 100)
	if k.reader == nil {
		k.logger.ErrorWithContext(ctx, "Consume called on a producer client", ErrNotConsumer, nil)
		close(out)
		return out
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(out)

		for {
			msg, err := k.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, io.EOF) || k.shuttingDown() {
					return
				}
				k.logger.WarnWithContext(ctx, "Failed to fetch kafka message", err, map[string]interface{}{
					"topic": k.cfg.Topic,
				})
				select {
				case <-time.After(time.Second):
					continue
				case <-ctx.Done():
					return
				case <-k.shutdownSignal:
					return
				}
			}

			select {
			case out <- &ConsumerMessage{reader: k.reader, msg: msg}:
			case <-ctx.Done():
				return
			case <-k.shutdownSignal:
				return
			}
		}
	}()
	return out
}

// Publish writes a message synchronously. Messages with the same key land
// on the same partition.
func (k *KafkaClient) Publish(ctx context.Context, key string, value []byte, headers ...map[string]string) error {
	if k.writer == nil {
		return ErrNotProducer
	}
	msg := kafka.Message{Value: value}
	if key != "" {
		msg.Key = []byte(key)
	}
	for _, h := range headers {
		msg.Headers = append(msg.Headers, mapToHeaders(h)...)
	}
	return k.writer.WriteMessages(ctx, msg)
}

func (k *KafkaClient) shuttingDown() bool {
	select {
	case <-k.shutdownSignal:
		return true
	default:
		return false
	}
}

func headersToMap(headers []kafka.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for _, h := range headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func mapToHeaders(m map[string]string) []kafka.Header {
	headers := make([]kafka.Header, 0, len(m))
	for k, v := range m {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return headers
}
