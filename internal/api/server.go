// Package api exposes the tracker over JSON/HTTP using gin.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhle/dailytasks/internal/tracker"
)

// Server is the dailytasks API server.
type Server struct {
	addr    string
	svc     *tracker.Service
	router  *gin.Engine
	logger  *slog.Logger
	timeout time.Duration
	grace   time.Duration
}

// Config holds server configuration.
type Config struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":3000",
		RequestTimeout:  10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		Logger:          slog.Default(),
	}
}

// New creates a new API server with every route registered.
func New(svc *tracker.Service, cfg *Config) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	s := &Server{
		addr:    cfg.Addr,
		svc:     svc,
		router:  router,
		logger:  logger,
		timeout: cfg.RequestTimeout,
		grace:   cfg.ShutdownTimeout,
	}

	router.Use(gin.Recovery(), RequestLogger(logger))
	if s.timeout > 0 {
		router.Use(RequestTimeout(s.timeout))
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api", RequireUser())
	{
		api.GET("/tasks", s.handleDueToday)
		api.GET("/tasks/all", s.handleAllTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.POST("/tasks/reorder", s.handleReorder)

		api.GET("/tasks/:id", s.handleGetTask)
		api.POST("/tasks/:id", s.handleUpdateTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.PATCH("/tasks/:id", s.handleToggleArchive)
		api.POST("/tasks/:id/toggle", s.handleToggleTask)

		api.POST("/tasks/:id/subtasks", s.handleCreateSubtask)
		api.POST("/tasks/:id/subtasks/:subtaskId/toggle", s.handleToggleSubtask)
		api.PATCH("/tasks/:id/subtasks/:subtaskId", s.handleUpdateSubtask)
		api.DELETE("/tasks/:id/subtasks/:subtaskId", s.handleDeleteSubtask)

		api.GET("/stats", s.handleStats)
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// StartContext serves until ctx is cancelled, then drains in-flight
// requests for up to the configured shutdown timeout.
func (s *Server) StartContext(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", s.addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server", "grace", s.grace)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
