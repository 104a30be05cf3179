package dashboard

import (
	"context"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/core/aggregation"
	"golang.org/x/sync/errgroup"
)

// Kind tells the rendering side how to draw a chart.
type Kind string

const (
	KindBar         Kind = "bar"
	KindPie         Kind = "pie"
	KindDoughnut    Kind = "doughnut"
	KindLine        Kind = "line"
	KindGroupedBar  Kind = "grouped_bar"
	KindStackedArea Kind = "stacked_area"
	KindStackedBar  Kind = "stacked_column"
	KindHeatmap     Kind = "heatmap"
)

// Chart is one titled aggregation result. Data is one of []aggregation.Entry,
// []aggregation.Point, aggregation.StackedSeries or aggregation.Matrix.
type Chart struct {
	Title string `json:"title" yaml:"title"`
	Kind  Kind   `json:"kind" yaml:"kind"`
	Data  any    `json:"data" yaml:"data"`
}

// Options sizes the rankings and matrices.
type Options struct {
	TopN           int
	TopCategories  int
	MatrixRowLimit int
	Catalog        aggregation.FeatureCatalog
}

// DefaultOptions matches the stock dashboard: top 10 rankings, top 8 per-day
// categories, 40 heatmap rows.
func DefaultOptions() Options {
	return Options{
		TopN:           10,
		TopCategories:  8,
		MatrixRowLimit: 40,
		Catalog:        aggregation.DefaultFeatureCatalog(),
	}
}

// Dashboard is everything derived from one view.
type Dashboard struct {
	Records int                 `json:"records" yaml:"records"`
	Summary aggregation.Summary `json:"summary" yaml:"summary"`
	Charts  []Chart             `json:"charts" yaml:"charts"`
}

// Empty reports whether the dashboard was built from no records.
func (d *Dashboard) Empty() bool { return d == nil || d.Records == 0 }

// Chart returns the chart with the given title.
func (d *Dashboard) Chart(title string) (Chart, bool) {
	if d == nil {
		return Chart{}, false
	}
	for _, c := range d.Charts {
		if c.Title == title {
			return c, true
		}
	}
	return Chart{}, false
}

type builder func(records []v1.UsageRecord, opts Options) []Chart

// Build evaluates every chart over records. The charts only read records, so
// they run concurrently; the result keeps the fixed chart order. An empty
// view produces a summary and no charts.
func Build(ctx context.Context, records []v1.UsageRecord, opts Options) (*Dashboard, error) {
	d := &Dashboard{Records: len(records), Charts: []Chart{}}
	if len(records) == 0 {
		d.Summary = aggregation.Summarize(records, opts.Catalog)
		return d, nil
	}

	results := make([][]Chart, len(builders))
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.Summary = aggregation.Summarize(records, opts.Catalog)
		return nil
	})
	for i, b := range builders {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = b(records, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, charts := range results {
		d.Charts = append(d.Charts, charts...)
	}
	return d, nil
}
