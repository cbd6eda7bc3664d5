// Package httpapi exposes the analysis read API plus health, readiness,
// and metrics endpoints.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orbitwatch/neo-data-service/internal/domain"
)

// AnalysisLister reads persisted daily analyses, optionally filtered to an
// inclusive date range.
type AnalysisLister interface {
	ListAnalyses(ctx context.Context, start, end string) ([]domain.DailyAnalysis, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// Server wraps the gin engine behind a plain http.Server for lifecycle
// control.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates the API server with /api/analyses, /healthz, /readyz,
// and /metrics routes.
func NewServer(addr string, lister AnalysisLister, ready ReadinessChecker, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}

	engine.GET("/api/analyses", s.handleListAnalyses(lister))
	engine.GET("/healthz", handleHealth)
	engine.GET("/readyz", handleReady(ready))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleListAnalyses serves GET /api/analyses. Filtering applies only when
// both start_date and end_date are present; a present-but-malformed date or
// an inverted range is a validation failure.
func (s *Server) handleListAnalyses(lister AnalysisLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := c.Query("start_date")
		end := c.Query("end_date")

		if start != "" && !domain.ValidDate(start) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "start_date must be a valid YYYY-MM-DD date"})
			return
		}
		if end != "" && !domain.ValidDate(end) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "end_date must be a valid YYYY-MM-DD date"})
			return
		}
		if start != "" && end != "" && end < start {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "end_date must be on or after start_date"})
			return
		}

		// Only a complete range filters; a single bound returns everything.
		if start == "" || end == "" {
			start, end = "", ""
		}

		analyses, err := lister.ListAnalyses(c.Request.Context(), start, end)
		if err != nil {
			s.logger.Error("list analyses failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analyses"})
			return
		}

		c.JSON(http.StatusOK, analyses)
	}
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := checker.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
