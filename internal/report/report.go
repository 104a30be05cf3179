package report

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/abhi-singhs/copilot-metrics-analysis/internal/core/aggregation"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/dashboard"
)

const (
	DefaultTitle  = "Copilot Metrics Report"
	DefaultFooter = "Generated locally - Copilot Metrics Dashboard"

	// CardsPerRow is the width of the summary card grid.
	CardsPerRow = 3

	subtitleSeparator = "  •  "
	timestampLayout   = "2006-01-02 15:04:05 MST"
)

var ErrNothingToReport = errors.New("no data to report")

// Options carries the user-supplied report labels.
type Options struct {
	Title      string `json:"title"`
	Enterprise string `json:"enterprise"`
	Org        string `json:"org"`
	Footer     string `json:"footer"`
}

// Section is one chart of the report. The renderer draws Data according to Kind.
type Section struct {
	Title string         `json:"title"`
	Kind  dashboard.Kind `json:"kind"`
	Data  any            `json:"data"`
}

// Document is the layout-independent content of a report. Pagination and
// image capture belong to the renderer.
type Document struct {
	Title       string                     `json:"title"`
	Subtitle    string                     `json:"subtitle"`
	GeneratedAt time.Time                  `json:"generated_at"`
	MetricRows  [][]aggregation.MetricCard `json:"metric_rows"`
	Sections    []Section                  `json:"sections"`
	Footer      string                     `json:"footer"`
	FileName    string                     `json:"file_name"`
}

// Compose lays out d for a report generated at now.
func Compose(d *dashboard.Dashboard, opts Options, now time.Time) (*Document, error) {
	if d.Empty() {
		return nil, ErrNothingToReport
	}

	enterprise := strings.TrimSpace(opts.Enterprise)
	org := strings.TrimSpace(opts.Org)
	base := strings.TrimSpace(opts.Title)
	if base == "" {
		base = DefaultTitle
	}
	footer := opts.Footer
	if footer == "" {
		footer = DefaultFooter
	}

	title := headerTitle(base, enterprise, org)
	subtitle := []string{"Generated " + now.Format(timestampLayout)}
	for _, name := range []string{enterprise, org} {
		if name != "" && !strings.Contains(title, name) {
			subtitle = append(subtitle, name)
		}
	}

	doc := &Document{
		Title:       title,
		Subtitle:    strings.Join(subtitle, subtitleSeparator),
		GeneratedAt: now,
		MetricRows:  chunk(d.Summary.Cards(), CardsPerRow),
		Sections:    make([]Section, 0, len(d.Charts)),
		Footer:      footer,
		FileName:    FileName(enterprise, org, now),
	}
	for _, c := range d.Charts {
		doc.Sections = append(doc.Sections, Section{Title: c.Title, Kind: c.Kind, Data: c.Data})
	}
	return doc, nil
}

func headerTitle(base, enterprise, org string) string {
	switch {
	case enterprise != "" && org != "":
		return fmt.Sprintf("%s – %s %s", enterprise, org, base)
	case enterprise != "":
		return enterprise + " " + base
	case org != "":
		return org + " " + base
	default:
		return base
	}
}

var nonSlug = regexp.MustCompile(`(?i)[^a-z0-9]+`)

// Slug lower-cases s and collapses every run of non-alphanumerics to one dash.
func Slug(s string) string {
	return strings.ToLower(strings.Trim(nonSlug.ReplaceAllString(s, "-"), "-"))
}

// FileName is the report download name, e.g.
// "acme-web-copilot-metrics-report-2024-03-09.pdf".
func FileName(enterprise, org string, now time.Time) string {
	var parts []string
	for _, name := range []string{enterprise, org} {
		if name != "" {
			parts = append(parts, Slug(name))
		}
	}
	parts = append(parts, "copilot-metrics-report", now.UTC().Format("2006-01-02"))
	return strings.Join(parts, "-") + ".pdf"
}

func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for size < len(items) {
		items, out = items[size:], append(out, items[:size:size])
	}
	return append(out, items)
}
