package ingest

import "context"

// Record is one unit delivered by a Source: a file, an object or a
// message. Its body holds one or more articles.
type Record struct {
	Key  string
	Body []byte

	// Ack confirms the record once all of its articles are handled. Nack
	// rejects a record that can never be processed. Both may be nil.
	Ack  func(ctx context.Context) error
	Nack func(ctx context.Context) error
}

func (r Record) ack(ctx context.Context) error {
	if r.Ack == nil {
		return nil
	}
	return r.Ack(ctx)
}

func (r Record) nack(ctx context.Context) error {
	if r.Nack == nil {
		return nil
	}
	return r.Nack(ctx)
}

// Source produces records until it is drained or ctx is done. Run stops
// at the first error returned by emit.
type Source interface {
	Run(ctx context.Context, emit func(ctx context.Context, rec Record) error) error
}
