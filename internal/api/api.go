// Package api provides the HTTP surface of the sales conversation service.
//
// It exposes RESTful endpoints for chat turns, web extraction, knowledge base
// management, session profiles and analytics, plus health and Prometheus
// metrics endpoints.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vendalab/salespipe/internal/engine"
	"github.com/vendalab/salespipe/internal/knowledge"
	"github.com/vendalab/salespipe/internal/session"
	"github.com/vendalab/salespipe/internal/store"
	"github.com/vendalab/salespipe/internal/webextract"
)

// DefaultAddr is the default listen address for the API server.
const DefaultAddr = ":8080"

// Web extraction cache windows. The chat path tolerates older context than
// the dedicated extraction endpoint serves.
const (
	DefaultChatCacheTTL    = 6 * time.Hour
	DefaultExtractCacheTTL = 12 * time.Hour
)

// shutdownTimeout bounds graceful server shutdown.
const shutdownTimeout = 10 * time.Second

// Opts holds API server configuration.
type Opts struct {
	addr      string
	engine    *engine.Engine
	sessions  *session.Manager
	kb        *knowledge.Base
	extractor *webextract.Extractor
	store     store.Store
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.addr = addr }
}

// WithEngine sets the conversation engine.
func WithEngine(e *engine.Engine) Option {
	return func(o *Opts) { o.engine = e }
}

// WithSessionManager sets the session manager.
func WithSessionManager(m *session.Manager) Option {
	return func(o *Opts) { o.sessions = m }
}

// WithKnowledgeBase sets the knowledge base.
func WithKnowledgeBase(kb *knowledge.Base) Option {
	return func(o *Opts) { o.kb = kb }
}

// WithExtractor sets the web content extractor.
func WithExtractor(e *webextract.Extractor) Option {
	return func(o *Opts) { o.extractor = e }
}

// WithStore sets the transcript store.
func WithStore(s store.Store) Option {
	return func(o *Opts) { o.store = s }
}

// Server wires the conversation engine, session manager, knowledge base,
// web extractor and transcript store behind HTTP handlers.
type Server struct {
	addr      string
	engine    *engine.Engine
	sessions  *session.Manager
	kb        *knowledge.Base
	extractor *webextract.Extractor
	store     store.Store
}

// NewServer creates an API server from the given options. The engine is
// required (chat turns cannot be served without one); the other dependencies
// fall back to in-memory defaults so a minimal configuration still serves.
func NewServer(options ...Option) *Server {
	opts := Opts{addr: DefaultAddr}
	for _, opt := range options {
		opt(&opts)
	}
	if opts.sessions == nil {
		opts.sessions = session.NewManager()
	}
	if opts.kb == nil {
		opts.kb = knowledge.NewBase()
	}
	if opts.extractor == nil {
		opts.extractor = webextract.NewExtractor()
	}
	if opts.store == nil {
		opts.store = store.NewInMemoryStore()
	}
	return &Server{
		addr:      opts.addr,
		engine:    opts.engine,
		sessions:  opts.sessions,
		kb:        opts.kb,
		extractor: opts.extractor,
		store:     opts.store,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", s.chatHandler)
		r.Post("/extract-url", s.extractURLHandler)
		r.Post("/knowledge/search", s.knowledgeSearchHandler)
		r.Post("/knowledge", s.knowledgeAddHandler)
		r.Get("/sessions/{sessionID}/profile", s.profileGetHandler)
		r.Put("/sessions/{sessionID}/profile", s.profilePutHandler)
		r.Get("/analytics", s.analyticsHandler)
	})
	return r
}

// Run starts the HTTP server and blocks until the context is canceled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server.Run: API listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Server.Run: shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
