package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/abhi-singhs/copilot-metrics-analysis/internal/core/aggregation"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/dashboard"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/report"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "COPILOT_METRICS_"

// Config represents the top-level application config plus the resolved feature catalog.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Metrics     MetricsConfig     `koanf:"metrics"`
	Aggregation AggregationConfig `koanf:"aggregation"`
	Workspace   WorkspaceConfig   `koanf:"workspace"`
	Report      ReportConfig      `koanf:"report"`

	// Catalog is populated by Load from aggregation.feature_catalog.
	Catalog aggregation.FeatureCatalog `koanf:"-"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

type AggregationConfig struct {
	TopN           int    `koanf:"top_n"`
	TopCategories  int    `koanf:"top_categories"`
	MatrixRowLimit int    `koanf:"matrix_row_limit"`
	FeatureCatalog string `koanf:"feature_catalog"` // optional YAML path
}

type WorkspaceConfig struct {
	MaxWorkspaces int    `koanf:"max_workspaces"`
	IdleTTL       string `koanf:"idle_ttl"`       // "0" keeps idle workspaces until LRU eviction
	SweepInterval string `koanf:"sweep_interval"` // parsed and validated on startup
}

// IdleTTLDuration is the parsed idle_ttl. Validate has already checked it.
func (c WorkspaceConfig) IdleTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.IdleTTL)
	return d
}

func (c WorkspaceConfig) SweepIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.SweepInterval)
	return d
}

type ReportConfig struct {
	Title      string `koanf:"title"`
	Enterprise string `koanf:"enterprise"`
	Org        string `koanf:"org"`
	Footer     string `koanf:"footer"`
}

// Addr is the listen address of the HTTP server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DashboardOptions returns the aggregation limits and catalog every workspace uses.
func (c *Config) DashboardOptions() dashboard.Options {
	return dashboard.Options{
		TopN:           c.Aggregation.TopN,
		TopCategories:  c.Aggregation.TopCategories,
		MatrixRowLimit: c.Aggregation.MatrixRowLimit,
		Catalog:        c.Catalog,
	}
}

func (c ReportConfig) Options() report.Options {
	return report.Options{Title: c.Title, Enterprise: c.Enterprise, Org: c.Org, Footer: c.Footer}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("invalid metrics.path %q (must start with /)", c.Metrics.Path)
	}

	if c.Aggregation.TopN <= 0 {
		return fmt.Errorf("aggregation.top_n must be > 0")
	}
	if c.Aggregation.TopCategories <= 0 {
		return fmt.Errorf("aggregation.top_categories must be > 0")
	}
	if c.Aggregation.MatrixRowLimit <= 0 {
		return fmt.Errorf("aggregation.matrix_row_limit must be > 0")
	}

	if c.Workspace.MaxWorkspaces <= 0 {
		return fmt.Errorf("workspace.max_workspaces must be > 0")
	}
	ttl, err := time.ParseDuration(c.Workspace.IdleTTL)
	if err != nil {
		return fmt.Errorf("invalid workspace.idle_ttl %q: %w", c.Workspace.IdleTTL, err)
	}
	if ttl < 0 {
		return fmt.Errorf("workspace.idle_ttl must be >= 0")
	}
	interval, err := time.ParseDuration(c.Workspace.SweepInterval)
	if err != nil {
		return fmt.Errorf("invalid workspace.sweep_interval %q: %w", c.Workspace.SweepInterval, err)
	}
	if ttl > 0 && interval <= 0 {
		return fmt.Errorf("workspace.sweep_interval must be > 0")
	}

	return nil
}

// Load parses config from defaults, an optional file and env, validates it,
// then loads the feature catalog.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")
	stock := dashboard.DefaultOptions()

	defaults := map[string]interface{}{
		"server.port":                  8080,
		"server.host":                  "0.0.0.0",
		"server.max_body_size_mb":      16,
		"server.mode":                  "release",
		"metrics.enabled":              true,
		"metrics.path":                 "/metrics",
		"aggregation.top_n":            stock.TopN,
		"aggregation.top_categories":   stock.TopCategories,
		"aggregation.matrix_row_limit": stock.MatrixRowLimit,
		"aggregation.feature_catalog":  "",
		"workspace.max_workspaces":     64,
		"workspace.idle_ttl":           "2h",
		"workspace.sweep_interval":     "5m",
		"report.title":                 report.DefaultTitle,
		"report.enterprise":            "",
		"report.org":                   "",
		"report.footer":                report.DefaultFooter,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog, err := aggregation.LoadFeatureCatalog(cfg.Aggregation.FeatureCatalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load feature catalog: %w", err)
	}
	cfg.Catalog = catalog

	return &cfg, nil
}
