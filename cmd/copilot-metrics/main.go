package main

import (
	"log/slog"
	"os"

	"github.com/abhi-singhs/copilot-metrics-analysis/internal/cli"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func main() {
	// 0. Initialize Logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Counters and sums are rendered as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	var configPath string
	rootCmd := &cobra.Command{
		Use:   "copilot-metrics",
		Short: "Analyze GitHub Copilot usage exports",
		Long: `copilot-metrics turns GitHub Copilot per-user daily usage exports into
dashboard aggregates: summary metrics, rankings, per-day and weekly series,
language/model/feature heatmaps, a sortable per-user table and CSV export.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (YAML)")

	rootCmd.AddCommand(cli.NewServeCmd(&configPath))
	rootCmd.AddCommand(cli.NewAnalyzeCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}
