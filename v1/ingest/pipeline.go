package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/scholar-index/v1/articles"
	"github.com/Aleph-Alpha/scholar-index/v1/catalog"
	"github.com/Aleph-Alpha/scholar-index/v1/embedding"
	"github.com/Aleph-Alpha/scholar-index/v1/ledger"
	"github.com/Aleph-Alpha/scholar-index/v1/logger"
	"github.com/Aleph-Alpha/scholar-index/v1/metrics"
	"github.com/Aleph-Alpha/scholar-index/v1/tracer"
)

// Outcomes counted per article.
const (
	OutcomeAdded   = "added"
	OutcomeSkipped = "skipped"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// Stats summarises a pipeline run.
type Stats struct {
	Records int64
	Added   int64
	Skipped int64
	Invalid int64
	Failed  int64
}

type counters struct {
	records, added, skipped, invalid, failed atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Records: c.records.Load(),
		Added:   c.added.Load(),
		Skipped: c.skipped.Load(),
		Invalid: c.invalid.Load(),
		Failed:  c.failed.Load(),
	}
}

// Pipeline turns source records into catalog items: decode, skip what the
// ledger has seen, embed in batches, store, record.
type Pipeline struct {
	cfg      Config
	catalog  *catalog.Catalog
	embedder embedding.Embedder
	ledger   ledger.Ledger
	logger   logger.Logger
	metrics  metrics.MetricsCollector
	tracer   *tracer.Tracer
}

type Params struct {
	fx.In

	Config   *Config
	Catalog  *catalog.Catalog
	Embedder embedding.Embedder
	Ledger   ledger.Ledger            `optional:"true"`
	Logger   logger.Logger            `optional:"true"`
	Metrics  metrics.MetricsCollector `optional:"true"`
	Tracer   *tracer.Tracer           `optional:"true"`
}

func NewPipeline(p Params) (*Pipeline, error) {
	cfg := DefaultConfig()
	if p.Config != nil {
		cfg = p.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pl := &Pipeline{
		cfg:      *cfg,
		catalog:  p.Catalog,
		embedder: p.Embedder,
		ledger:   p.Ledger,
		logger:   p.Logger,
		metrics:  p.Metrics,
		tracer:   p.Tracer,
	}
	if pl.ledger == nil {
		pl.ledger = ledger.NewMemory()
	}
	if pl.logger == nil {
		pl.logger = logger.NewNop()
	}
	if pl.metrics == nil {
		pl.metrics = metrics.NewNop()
	}
	if pl.tracer == nil {
		pl.tracer = tracer.NewNop()
	}
	return pl, nil
}

// Run reads src until it is drained and stores its articles in
// collection. Invalid records and articles are counted and skipped;
// embedding and storage failures stop the run.
func (p *Pipeline) Run(ctx context.Context, collection string, src Source) (Stats, error) {
	var c counters

	if err := ctx.Err(); err != nil {
		return c.snapshot(), err
	}
	if err := p.ensureCollection(ctx, collection); err != nil {
		return c.snapshot(), err
	}

	g, ctx := errgroup.WithContext(ctx)
	records := make(chan Record, p.cfg.Concurrency)

	g.Go(func() error {
		defer close(records)
		return src.Run(ctx, func(ctx context.Context, rec Record) error {
			select {
			case records <- rec:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	for range p.cfg.Concurrency {
		g.Go(func() error {
			for rec := range records {
				if err := p.handle(ctx, collection, rec, &c); err != nil {
					return err
				}
			}
			return nil
		})
	}

	err := g.Wait()
	stats := c.snapshot()
	fields := map[string]interface{}{
		"collection": collection,
		"records":    stats.Records,
		"added":      stats.Added,
		"skipped":    stats.Skipped,
		"invalid":    stats.Invalid,
		"failed":     stats.Failed,
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		p.logger.ErrorWithContext(ctx, "ingest stopped", err, fields)
	} else {
		p.logger.InfoWithContext(ctx, "ingest finished", nil, fields)
	}
	return stats, err
}

// ensureCollection creates a missing collection when configured to and
// rejects one whose vector size differs from the embedder's.
func (p *Pipeline) ensureCollection(ctx context.Context, collection string) error {
	dim := p.embedder.Dimension()

	info, err := p.catalog.CollectionInfo(ctx, collection)
	switch {
	case err == nil:
		if info.VectorSize != dim {
			return fmt.Errorf("ingest: collection %q has vector size %d, embedder produces %d",
				collection, info.VectorSize, dim)
		}
		return nil
	case errors.Is(err, catalog.ErrCollectionDoesNotExist) && p.cfg.CreateCollection:
		err = p.catalog.CreateCollection(ctx, collection, dim)
		if errors.Is(err, catalog.ErrCollectionAlreadyExists) {
			return nil
		}
		return err
	default:
		return err
	}
}

func (p *Pipeline) handle(ctx context.Context, collection string, rec Record, c *counters) error {
	ctx, span := p.tracer.StartSpan(ctx, "ingest.record")
	defer span.End()
	p.tracer.SetAttributes(span, map[string]interface{}{"collection": collection, "key": rec.Key})
	c.records.Add(1)

	list, err := articles.DecodeArticles(bytes.NewReader(rec.Body))
	if err != nil {
		p.logger.WarnWithContext(ctx, "dropping undecodable record", err, map[string]interface{}{"key": rec.Key})
		p.count(c, OutcomeInvalid, 1)
		return p.settle(ctx, rec, rec.nack)
	}

	fresh := make([]articles.Article, 0, len(list))
	for i, a := range list {
		seen, err := p.seen(ctx, collection, a)
		if err != nil {
			p.tracer.RecordErrorOnSpan(span, err)
			return p.abort(ctx, rec, c, len(fresh)+len(list)-i, err)
		}
		if seen {
			p.count(c, OutcomeSkipped, 1)
			continue
		}
		fresh = append(fresh, a)
	}

	remaining := len(fresh)
	for _, batch := range lo.Chunk(fresh, p.cfg.BatchSize) {
		remaining -= len(batch)
		if err := p.store(ctx, collection, batch, c); err != nil {
			p.tracer.RecordErrorOnSpan(span, err)
			return p.abort(ctx, rec, c, remaining, err)
		}
	}
	return p.settle(ctx, rec, rec.ack)
}

func (p *Pipeline) seen(ctx context.Context, collection string, a articles.Article) (bool, error) {
	if a.ID == "" {
		return false, nil
	}
	return p.ledger.Seen(ctx, collection, a.ID)
}

// store embeds batch and adds each article. Validation failures are
// counted per article; any other error is returned.
func (p *Pipeline) store(ctx context.Context, collection string, batch []articles.Article, c *counters) error {
	texts := lo.Map(batch, func(a articles.Article, _ int) string { return a.Text() })
	vectors, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		p.count(c, OutcomeFailed, len(batch))
		return fmt.Errorf("ingest: embed batch: %w", err)
	}

	for i, a := range batch {
		documentID, err := p.catalog.AddItem(ctx, collection, vectors[i], a.Payload())
		if err != nil {
			if invalidItem(err) {
				p.logger.WarnWithContext(ctx, "skipping invalid article", err, map[string]interface{}{
					"collection": collection,
					"article_id": a.ID,
				})
				p.count(c, OutcomeInvalid, 1)
				continue
			}
			p.count(c, OutcomeFailed, len(batch)-i)
			return err
		}

		if a.ID != "" {
			if err := p.ledger.Record(ctx, collection, a.ID, documentID); err != nil {
				p.count(c, OutcomeFailed, len(batch)-i)
				return fmt.Errorf("ingest: record %s: %w", a.ID, err)
			}
		}
		p.count(c, OutcomeAdded, 1)
	}
	return nil
}

func invalidItem(err error) bool {
	return errors.Is(err, catalog.ErrInputData) ||
		errors.Is(err, catalog.ErrInvalidDateFormat) ||
		errors.Is(err, catalog.ErrInvalidRequest)
}

// abort rejects rec after a fatal error and counts the articles that
// were not attempted.
func (p *Pipeline) abort(ctx context.Context, rec Record, c *counters, pending int, cause error) error {
	if pending > 0 {
		p.count(c, OutcomeFailed, pending)
	}
	if err := rec.nack(ctx); err != nil {
		p.logger.WarnWithContext(ctx, "failed to reject record", err, map[string]interface{}{"key": rec.Key})
	}
	return cause
}

func (p *Pipeline) settle(ctx context.Context, rec Record, fn func(context.Context) error) error {
	if err := fn(ctx); err != nil {
		return fmt.Errorf("ingest: settle record %q: %w", rec.Key, err)
	}
	return nil
}

func (p *Pipeline) count(c *counters, outcome string, n int) {
	for range n {
		p.metrics.IncIngested(outcome)
	}
	switch outcome {
	case OutcomeAdded:
		c.added.Add(int64(n))
	case OutcomeSkipped:
		c.skipped.Add(int64(n))
	case OutcomeInvalid:
		c.invalid.Add(int64(n))
	case OutcomeFailed:
		c.failed.Add(int64(n))
	}
}
