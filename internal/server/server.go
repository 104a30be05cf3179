package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/abhi-singhs/copilot-metrics-analysis/internal/observability"
	"github.com/gin-gonic/gin"
)

type Server struct {
	Engine *gin.Engine
	Addr   string
	counts WorkspaceCounter
}

// WorkspaceCounter reports how many workspaces are held in memory.
type WorkspaceCounter interface {
	Len() int
}

// New builds the gin engine with health and, when metricsPath is set, the
// Prometheus endpoint. A nil metrics disables both instrumentation and the
// endpoint.
func New(addr, mode string, counts WorkspaceCounter, metrics *observability.Metrics, metricsPath string) *Server {
	// Set Gin mode based on configuration
	if mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if metrics != nil {
		r.Use(metrics.Middleware())
		if metricsPath != "" {
			r.GET(metricsPath, gin.WrapH(metrics.Handler()))
		}
	}

	s := &Server{
		Engine: r,
		Addr:   addr,
		counts: counts,
	}

	r.GET("/health", s.healthHandler)

	return s
}

func (s *Server) healthHandler(c *gin.Context) {
	workspaces := 0
	if s.counts != nil {
		workspaces = s.counts.Len()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"workspaces": workspaces,
	})
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Starting HTTP Server...", "address", s.Addr)

	go func() {
		<-ctx.Done()
		slog.Info("Stopping HTTP Server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP Server forced to shutdown", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
