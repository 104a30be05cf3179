package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/core/aggregation"
	corecfg "github.com/abhi-singhs/copilot-metrics-analysis/internal/core/config"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/dashboard"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/ingestion"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/usertable"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/view"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/workspace"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

type analyzeOptions struct {
	membersPath string
	criteria    view.Criteria
	rng         string
	sorts       []string
	csvPath     string
	format      string
}

// analysis is the document printed by 'analyze'.
type analysis struct {
	Status  workspace.Status         `json:"status" yaml:"status"`
	Summary aggregation.Summary      `json:"summary" yaml:"summary"`
	Cards   []aggregation.MetricCard `json:"cards" yaml:"cards"`
	Charts  []dashboard.Chart        `json:"charts" yaml:"charts"`
	Users   []usertable.Row          `json:"users" yaml:"users"`
}

// NewAnalyzeCmd creates the 'analyze' command for one-shot offline analysis.
func NewAnalyzeCmd(configPath *string) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze a usage export and print the dashboard",
		Long: `Analyze a Copilot usage export (JSON array, wrapper object or JSON Lines)
and print the summary, charts and per-user table of the filtered view.`,
		Example: `  # Full dashboard as YAML
  copilot-metrics analyze usage.json

  # Org members over the last 28 days, busiest users first, with a CSV export
  copilot-metrics analyze usage.jsonl --members members.json --members-only \
    --range 28 --sort interactions --sort interactions --csv users.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := corecfg.Load(*configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.membersPath, "members", "m", "", "Org members file (JSON, wrapper object or JSON Lines)")
	cmd.Flags().StringVarP(&opts.criteria.Search, "search", "s", "", "Keep users whose login contains this text")
	cmd.Flags().StringVar(&opts.criteria.From, "from", "", "First day to keep (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.criteria.To, "to", "", "Last day to keep (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.criteria.MembersOnly, "members-only", false, "Keep only users listed in the members file")
	cmd.Flags().StringVarP(&opts.rng, "range", "r", "", "Quick range: last N days or 'all' (overrides --from/--to)")
	cmd.Flags().StringArrayVar(&opts.sorts, "sort", nil, "User table column; repeat a column to flip its direction")
	cmd.Flags().StringVar(&opts.csvPath, "csv", "", "Write the user table to this CSV file")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatYAML, "Output format: yaml or json")

	return cmd
}

func runAnalyze(ctx context.Context, out io.Writer, cfg *corecfg.Config, path string, opts analyzeOptions) error {
	if opts.format != formatYAML && opts.format != formatJSON {
		return fmt.Errorf("unsupported format %q (must be yaml or json)", opts.format)
	}

	records, err := readRecords(path)
	if err != nil {
		return err
	}

	w := workspace.New(uuid.New(), workspace.Options{Dashboard: cfg.DashboardOptions()})
	if _, err := w.LoadDataset(ctx, path, records); err != nil {
		return err
	}

	if opts.membersPath != "" {
		data, err := os.ReadFile(opts.membersPath)
		if err != nil {
			return fmt.Errorf("reading members file: %w", err)
		}
		members, err := ingestion.ParseMembers(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", opts.membersPath, err)
		}
		if _, err := w.SetMembers(ctx, members); err != nil {
			return err
		}
	}

	if opts.rng != "" {
		_, err = w.ApplyFiltersInRange(ctx, opts.criteria, opts.rng)
	} else {
		_, err = w.ApplyFilters(ctx, withDefaultSpan(opts.criteria, w.Status()))
	}
	if err != nil {
		return err
	}

	for _, col := range opts.sorts {
		parsed, err := usertable.ParseColumn(col)
		if err != nil {
			return err
		}
		if _, err := w.SortUsers(parsed); err != nil {
			return err
		}
	}

	if opts.csvPath != "" {
		if err := writeCSV(w, opts.csvPath); err != nil {
			return err
		}
	}

	d := w.Dashboard()
	rows, _ := w.UserRows()
	return encode(out, opts.format, analysis{
		Status:  w.Status(),
		Summary: d.Summary,
		Cards:   d.Summary.Cards(),
		Charts:  d.Charts,
		Users:   rows,
	})
}

// withDefaultSpan fills unset day bounds with the dataset span.
func withDefaultSpan(c view.Criteria, s workspace.Status) view.Criteria {
	if c.From == "" {
		c.From = s.FirstDay
	}
	if c.To == "" {
		c.To = s.LastDay
	}
	return c
}

func readRecords(path string) ([]v1.UsageRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading usage export: %w", err)
	}
	records, err := ingestion.ParseRecords(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func writeCSV(w *workspace.Workspace, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return w.WriteUsersCSV(f)
}

func encode(out io.Writer, format string, doc analysis) error {
	if format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
