package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/dashboard"
	"github.com/stretchr/testify/require"
)

func buildDashboard(t *testing.T) *dashboard.Dashboard {
	t.Helper()
	var records []v1.UsageRecord
	require.NoError(t, json.Unmarshal([]byte(`[
		{"user_login": "a", "user_id": 1, "day": "2024-01-01", "user_initiated_interaction_count": 5}
	]`), &records))
	d, err := dashboard.Build(context.Background(), records, dashboard.DefaultOptions())
	require.NoError(t, err)
	return d
}

func TestCompose(t *testing.T) {
	d := buildDashboard(t)
	now := time.Date(2024, 3, 9, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name         string
		opts         Options
		wantTitle    string
		wantSubtitle string
		wantFile     string
	}{
		{
			name:         "defaults",
			wantTitle:    "Copilot Metrics Report",
			wantSubtitle: "Generated 2024-03-09 12:30:00 UTC",
			wantFile:     "copilot-metrics-report-2024-03-09.pdf",
		},
		{
			name:         "enterprise and org",
			opts:         Options{Enterprise: " Acme Corp ", Org: "Web/Platform"},
			wantTitle:    "Acme Corp – Web/Platform Copilot Metrics Report",
			wantSubtitle: "Generated 2024-03-09 12:30:00 UTC",
			wantFile:     "acme-corp-web-platform-copilot-metrics-report-2024-03-09.pdf",
		},
		{
			name:         "org only",
			opts:         Options{Org: "Octo"},
			wantTitle:    "Octo Copilot Metrics Report",
			wantSubtitle: "Generated 2024-03-09 12:30:00 UTC",
			wantFile:     "octo-copilot-metrics-report-2024-03-09.pdf",
		},
		{
			name:         "custom base title",
			opts:         Options{Title: "Usage", Enterprise: "E"},
			wantTitle:    "E Usage",
			wantSubtitle: "Generated 2024-03-09 12:30:00 UTC",
			wantFile:     "e-copilot-metrics-report-2024-03-09.pdf",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Compose(d, tc.opts, now)
			require.NoError(t, err)
			require.Equal(t, tc.wantTitle, doc.Title)
			require.Equal(t, tc.wantSubtitle, doc.Subtitle)
			require.Equal(t, tc.wantFile, doc.FileName)
			require.Equal(t, DefaultFooter, doc.Footer)
		})
	}
}

func TestCompose_Layout(t *testing.T) {
	d := buildDashboard(t)

	doc, err := Compose(d, Options{}, time.Now())
	require.NoError(t, err)

	require.Len(t, doc.MetricRows, 4)
	require.Len(t, doc.MetricRows[0], 3)
	require.Len(t, doc.MetricRows[3], 2)
	require.Equal(t, "Total Active Users", doc.MetricRows[0][0].Label)

	require.Len(t, doc.Sections, len(d.Charts))
	require.Equal(t, dashboard.TitleTopUsers(10), doc.Sections[0].Title)
	require.Equal(t, dashboard.KindBar, doc.Sections[0].Kind)
}

func TestCompose_Empty(t *testing.T) {
	d, err := dashboard.Build(context.Background(), nil, dashboard.DefaultOptions())
	require.NoError(t, err)

	_, err = Compose(d, Options{}, time.Now())
	require.ErrorIs(t, err, ErrNothingToReport)
}

func TestSlug(t *testing.T) {
	require.Equal(t, "acme-corp", Slug("  Acme   Corp!! "))
	require.Equal(t, "a-b-c", Slug("--A__b..C--"))
	require.Equal(t, "", Slug("***"))
}
