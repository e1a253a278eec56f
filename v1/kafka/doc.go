// Package kafka wraps github.com/segmentio/kafka-go for the article
// ingestion topic.
//
// A consumer client reads as part of a consumer group with auto-commit
// disabled. Every message must be committed explicitly once it has been
// handled, so a crash replays whatever was not committed:
//
//	client, err := kafka.NewClient(cfg, log)
//	wg := &sync.WaitGroup{}
//	for msg := range client.Consume(ctx, wg) {
//	    if err := handle(msg.Body()); err == nil {
//	        _ = msg.CommitMsg(ctx)
//	    }
//	}
//
// A producer client (IsConsumer false) writes with Publish and balances
// on the message key. TLS and SASL (PLAIN, SCRAM-SHA-256, SCRAM-SHA-512)
// are configured through Config.
package kafka
