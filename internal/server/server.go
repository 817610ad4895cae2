// Package server exposes the task projections as a read-only JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hy4ri/taskboard/internal/projection"
	"github.com/hy4ri/taskboard/internal/source"
)

// TaskSource supplies task lists. *source.Source satisfies it.
type TaskSource interface {
	Tasks(ctx context.Context, workspaceID string) (*source.Result, error)
}

// Options configures a Server.
type Options struct {
	Columns  []projection.ColumnConfig
	Location *time.Location
	Logger   *slog.Logger
	Now      func() time.Time
}

// Server serves calendar, board, due-window, list and analytics views.
type Server struct {
	tasks   TaskSource
	columns []projection.ColumnConfig
	loc     *time.Location
	logger  *slog.Logger
	now     func() time.Time
	engine  *gin.Engine
}

// New builds a Server and its routes.
func New(tasks TaskSource, opts Options) *Server {
	s := &Server{
		tasks:   tasks,
		columns: opts.Columns,
		loc:     opts.Location,
		logger:  opts.Logger,
		now:     opts.Now,
	}
	if len(s.columns) == 0 {
		s.columns = projection.DefaultColumns()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(
		requestIDMiddleware(),
		recoveryMiddleware(s.logger),
		loggingMiddleware(s.logger),
		metricsMiddleware(),
	)
	s.routes()

	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.engine.Group("/api")
	api.GET("/calendar", s.handleCalendar)
	api.GET("/board", s.handleBoard)
	api.GET("/due", s.handleDue)
	api.GET("/tasks", s.handleTasks)
	api.GET("/analytics", s.handleAnalytics)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
