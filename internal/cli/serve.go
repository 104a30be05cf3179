package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	corecfg "github.com/abhi-singhs/copilot-metrics-analysis/internal/core/config"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/ingestion"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/observability"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/projection"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/server"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/workspace"
	"github.com/spf13/cobra"
)

// NewServeCmd creates the 'serve' command running the HTTP API.
func NewServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the metrics HTTP API",
		Long: `Run the HTTP API. Each client creates a workspace, uploads a usage
export (and optionally an org members file) into it, then queries the
filtered dashboard, user table, CSV export and report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	// 1. Load Configuration
	cfg, err := corecfg.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	slog.Info("Loaded config", "config", cfg)

	// 2. Initialize Metrics
	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics, err = observability.NewMetrics()
		if err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}

	// 3. Initialize Workspace Store
	store := workspace.NewStore(cfg.Workspace.MaxWorkspaces, workspace.Options{
		Dashboard: cfg.DashboardOptions(),
		Metrics:   metrics,
	})
	slog.Info("Workspace store initialized",
		"max_workspaces", cfg.Workspace.MaxWorkspaces,
		"top_n", cfg.Aggregation.TopN,
		"top_categories", cfg.Aggregation.TopCategories,
		"matrix_row_limit", cfg.Aggregation.MatrixRowLimit,
	)

	// 4. Initialize Ingestion (uploads)
	ingestionSvc := ingestion.NewService(store, metrics, cfg.Server.MaxBodySizeMB)

	// 5. Initialize Projection (query API)
	projectionSvc := projection.NewService(store, cfg.Report.Options(), cfg.Aggregation.TopN)

	// 6. Initialize Server
	srv := server.New(cfg.Server.Addr(), cfg.Server.Mode, store, metrics, cfg.Metrics.Path)
	ingestionSvc.RegisterRoutes(srv.Engine)
	projectionSvc.RegisterRoutes(srv.Engine)

	// 7. Start Services
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Idle workspace sweeper runs in background when a TTL is configured
	if ttl := cfg.Workspace.IdleTTLDuration(); ttl > 0 {
		sweeper := workspace.NewSweeper(store, cfg.Workspace.SweepIntervalDuration(), ttl)
		go func() {
			if err := sweeper.Start(ctx); err != nil {
				slog.Error("Sweeper stopped with error", "error", err)
			}
		}()
	} else {
		slog.Info("Idle workspace sweeper disabled by config")
	}

	go func() {
		<-ctx.Done()
		slog.Info("Signal received, shutting down...")
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	slog.Info("Shutdown complete")
	return nil
}
