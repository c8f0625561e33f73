// Package server wires the chi router and HTTP server for the assistant API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/caribbeanrecipe/assistant/internal/infrastructure/config"
	"github.com/caribbeanrecipe/assistant/internal/infrastructure/http/handlers"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	router *chi.Mux
	server *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	assistantHandlers *handlers.AssistantHandlers,
	contentHandlers *handlers.ContentHandlers,
	registry *prometheus.Registry,
) *Server {
	s := &Server{
		config: cfg,
		logger: logger,
	}

	s.router = s.setupRouter(assistantHandlers, contentHandlers, registry)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           s.router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s
}

// setupRouter configures routes and middleware
func (s *Server) setupRouter(
	assistantHandlers *handlers.AssistantHandlers,
	contentHandlers *handlers.ContentHandlers,
	registry *prometheus.Registry,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(s.config.Server.WriteTimeout))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/assistant/message", assistantHandlers.HandleMessage)

		r.Route("/content", func(r chi.Router) {
			r.Get("/featured", contentHandlers.GetFeatured)
			r.Get("/tips", contentHandlers.ListTips)
			r.Get("/hacks", contentHandlers.ListHacks)
			r.Get("/trends", contentHandlers.ListTrends)

			r.Post("/generate", contentHandlers.Generate)
			r.Post("/batch", contentHandlers.GenerateBatch)
			r.Post("/daily", contentHandlers.GenerateDaily)
			r.Post("/rotate", contentHandlers.RotateFeatured)

			r.Put("/{kind}/{id}/featured", contentHandlers.SetFeatured)
			r.Get("/{kind}/{slug}", contentHandlers.GetBySlug)
		})
	})

	return r
}

// handleHealth reports process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","version":%q}`, s.config.App.Version)
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins listening for requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	ctx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
