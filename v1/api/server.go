package api

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/scholar-index/v1/catalog"
	"github.com/Aleph-Alpha/scholar-index/v1/embedding"
	"github.com/Aleph-Alpha/scholar-index/v1/ledger"
	"github.com/Aleph-Alpha/scholar-index/v1/logger"
	"github.com/Aleph-Alpha/scholar-index/v1/metrics"
	"github.com/Aleph-Alpha/scholar-index/v1/tracer"
)

// Server exposes the catalog over HTTP.
type Server struct {
	cfg      *Config
	catalog  *catalog.Catalog
	embedder embedding.Embedder
	ledger   ledger.Ledger
	logger   logger.Logger
	metrics  metrics.MetricsCollector
	tracer   *tracer.Tracer

	http *http.Server
}

// Params groups the dependencies of NewServer. Without an Embedder,
// searches must carry a vector. The Ledger, when present, forgets
// deleted items so their articles can be ingested again.
type Params struct {
	fx.In

	Config   *Config
	Catalog  *catalog.Catalog
	Logger   logger.Logger
	Embedder embedding.Embedder       `optional:"true"`
	Ledger   ledger.Ledger            `optional:"true"`
	Metrics  metrics.MetricsCollector `optional:"true"`
	Tracer   *tracer.Tracer           `optional:"true"`
}

// NewServer builds the server and its routes. It does not listen yet.
func NewServer(p Params) *Server {
	s := &Server{
		cfg:      p.Config,
		catalog:  p.Catalog,
		embedder: p.Embedder,
		ledger:   p.Ledger,
		logger:   p.Logger,
		metrics:  p.Metrics,
		tracer:   p.Tracer,
	}
	if s.cfg == nil {
		s.cfg = DefaultConfig()
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewNop()
	}
	if s.tracer == nil {
		s.tracer = tracer.NewNop()
	}

	s.http = &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	return s
}

// Handler returns the routed and instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /collections", s.handleListCollections)
	mux.HandleFunc("POST /collections", s.handleCreateCollection)
	mux.HandleFunc("POST /create_collection", s.handleCreateCollection)
	mux.HandleFunc("GET /collections/{name}", s.handleCollectionInfo)
	mux.HandleFunc("DELETE /collections/{name}", s.handleDeleteCollection)
	mux.HandleFunc("POST /collections/{name}/items", s.handleAddItem)
	mux.HandleFunc("GET /collections/{name}/items/{document_id}", s.handleGetItem)
	mux.HandleFunc("DELETE /collections/{name}/items/{document_id}", s.handleDeleteItem)
	mux.HandleFunc("POST /collections/{name}/search", s.handleSearch)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return s.instrument(s.limitBody(mux))
}

// Start listens on the configured address and serves in the background.
// Listen errors are returned immediately.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}

	s.logger.Info("Starting HTTP server", nil, map[string]interface{}{"address": ln.Addr().String()})
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", err, nil)
		}
	}()
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones, at most
// Config.ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	s.logger.Info("Shutting down HTTP server", nil, nil)
	return s.http.Shutdown(ctx)
}
