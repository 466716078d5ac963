// Package server exposes a Pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZaguanLabs/gotdt"
	"github.com/ZaguanLabs/gotdt/config"
	"github.com/ZaguanLabs/gotdt/provider"
)

const (
	shutdownTimeout    = 10 * time.Second
	healthCheckTimeout = 5 * time.Second
)

// Server serves the translation API.
type Server struct {
	pipeline *gotdt.Pipeline
	cfg      *config.Config
	logger   *slog.Logger
	pinger   provider.Pinger
	engine   *gin.Engine
	now      func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithPinger makes /health check that the provider backend is reachable.
func WithPinger(p provider.Pinger) Option {
	return func(s *Server) {
		s.pinger = p
	}
}

// New builds the HTTP server around an already constructed pipeline.
func New(pipeline *gotdt.Pipeline, cfg *config.Config, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		pipeline: pipeline,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(requestID(), accessLog(logger), recovery(s))
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "endpoint not found", ErrorCode: "NOT_FOUND"})
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorBody{Error: "method not allowed", ErrorCode: "METHOD_NOT_ALLOWED"})
	})

	engine.POST("/translate", s.handleTranslate)
	engine.GET("/languages", s.handleLanguages)
	engine.GET("/technical-terms", s.handleListTerms)
	engine.POST("/technical-terms", s.handleAddTerm)
	engine.GET("/health", s.handleHealth)

	s.engine = engine
	return s
}

// Handler returns the http.Handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			"addr", srv.Addr,
			"mode", s.cfg.Server.Mode,
			"provider", s.pipeline.ProviderName())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
