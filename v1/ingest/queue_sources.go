package ingest

import (
	"context"
	"sync"

	"github.com/Aleph-Alpha/scholar-index/v1/kafka"
	"github.com/Aleph-Alpha/scholar-index/v1/minio"
	"github.com/Aleph-Alpha/scholar-index/v1/rabbit"
)

// RabbitSource emits queue messages until ctx is done. Handled messages
// are acked; undecodable ones are nacked without requeue and end up in
// the dead-letter queue.
type RabbitSource struct {
	Client rabbit.Client
}

func (s *RabbitSource) Run(ctx context.Context, emit func(context.Context, Record) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg := &sync.WaitGroup{}
	defer wg.Wait()

	for msg := range s.Client.Consume(ctx, wg) {
		rec := Record{
			Body: msg.Body(),
			Ack:  func(context.Context) error { return msg.AckMsg() },
			Nack: func(context.Context) error { return msg.NackMsg(false) },
		}
		if err := emit(ctx, rec); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// KafkaSource emits topic messages until ctx is done and commits each
// handled one. Nack leaves the offset alone. Offsets are per partition, so
// a later commit in the same partition moves past the rejected message for
// good; it is only read again after a restart when nothing behind it in
// its partition was committed.
type KafkaSource struct {
	Client kafka.Client
}

func (s *KafkaSource) Run(ctx context.Context, emit func(context.Context, Record) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg := &sync.WaitGroup{}
	defer wg.Wait()

	for msg := range s.Client.Consume(ctx, wg) {
		rec := Record{
			Key:  msg.Key(),
			Body: msg.Body(),
			Ack:  msg.CommitMsg,
		}
		if err := emit(ctx, rec); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// MinioSource emits every object under Prefix once.
type MinioSource struct {
	Client minio.Client
	Prefix string
}

func (s *MinioSource) Run(ctx context.Context, emit func(context.Context, Record) error) error {
	objects, err := s.Client.List(ctx, s.Prefix)
	if err != nil {
		return err
	}
	for _, obj := range objects {
		body, err := s.Client.Get(ctx, obj.Key)
		if err != nil {
			return err
		}
		if err := emit(ctx, Record{Key: obj.Key, Body: body}); err != nil {
			return err
		}
	}
	return nil
}
