package catalog

import (
	"context"
	"errors"
	"fmt"

	traceSpan "go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/scholar-index/v1/logger"
	"github.com/Aleph-Alpha/scholar-index/v1/metrics"
	"github.com/Aleph-Alpha/scholar-index/v1/tracer"
	"github.com/Aleph-Alpha/scholar-index/v1/vectordb"
)

// Catalog manages collections and the articles stored in them on top of
// a vectordb.Index. It holds no state of its own and is safe for
// concurrent use.
type Catalog struct {
	index   vectordb.Index
	logger  logger.Logger
	tracer  *tracer.Tracer
	metrics metrics.MetricsCollector
}

// Params groups the dependencies of New. Tracer and Metrics are optional.
type Params struct {
	fx.In

	Index   vectordb.Index
	Logger  logger.Logger
	Tracer  *tracer.Tracer           `optional:"true"`
	Metrics metrics.MetricsCollector `optional:"true"`
}

// New creates a Catalog.
func New(p Params) *Catalog {
	c := &Catalog{
		index:   p.Index,
		logger:  p.Logger,
		tracer:  p.Tracer,
		metrics: p.Metrics,
	}
	if c.logger == nil {
		c.logger = logger.NewNop()
	}
	if c.tracer == nil {
		c.tracer = tracer.NewNop()
	}
	if c.metrics == nil {
		c.metrics = metrics.NewNop()
	}
	return c
}

func (c *Catalog) start(ctx context.Context, op, collection string) (context.Context, traceSpan.Span) {
	ctx, span := c.tracer.StartSpan(ctx, "catalog."+op)
	c.tracer.SetAttributes(span, map[string]interface{}{"collection": collection})
	return ctx, span
}

// finish closes the span of op and records its outcome. Domain errors
// are logged at debug level, anything else as an error.
func (c *Catalog) finish(ctx context.Context, span traceSpan.Span, op, collection string, err error) {
	defer span.End()

	kind := Kind(err)
	c.metrics.IncIndexOperation(op, kind)
	if err == nil {
		return
	}

	fields := map[string]interface{}{
		"operation":  op,
		"collection": collection,
		"kind":       kind,
	}
	if kind == "internal" {
		c.tracer.RecordErrorOnSpan(span, err)
		c.logger.ErrorWithContext(ctx, "catalog operation failed", err, fields)
		return
	}
	c.tracer.SetAttributes(span, map[string]interface{}{"error.kind": kind})
	c.logger.Debug("catalog operation rejected", err, fields)
}

// requireCollection fails with ErrCollectionDoesNotExist when name is absent.
func (c *Catalog) requireCollection(ctx context.Context, name string) error {
	ok, err := c.index.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("catalog: check collection %q: %w", name, err)
	}
	if !ok {
		return collectionMissing(name)
	}
	return nil
}

// describe returns the collection metadata, mapping a missing collection
// to ErrCollectionDoesNotExist.
func (c *Catalog) describe(ctx context.Context, name string) (*vectordb.Collection, error) {
	info, err := c.index.GetCollection(ctx, name)
	if errors.Is(err, vectordb.ErrCollectionNotFound) {
		return nil, collectionMissing(name)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: describe collection %q: %w", name, err)
	}
	return info, nil
}

// Ping reports whether the backend is reachable. Backends with a
// dedicated health check use it; others are checked with a listing.
func (c *Catalog) Ping(ctx context.Context) error {
	if hc, ok := c.index.(interface{ HealthCheck(context.Context) error }); ok {
		return hc.HealthCheck(ctx)
	}
	_, err := c.index.ListCollections(ctx)
	return err
}
