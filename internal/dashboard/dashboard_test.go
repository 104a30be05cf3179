package dashboard

import (
	"context"
	"encoding/json"
	"testing"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/core/aggregation"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func decodeRecords(t *testing.T, raw string) []v1.UsageRecord {
	t.Helper()
	var out []v1.UsageRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func titles(d *Dashboard) []string {
	return lo.Map(d.Charts, func(c Chart, _ int) string { return c.Title })
}

const fullFixture = `[
	{"user_login": "alice", "user_id": 1, "day": "2024-01-01",
	 "user_initiated_interaction_count": 5, "code_generation_activity_count": 10, "code_acceptance_activity_count": 4,
	 "totals_by_feature": [{"feature": "chat_panel_agent_mode", "user_initiated_interaction_count": 5}],
	 "totals_by_language_feature": [{"language": "go", "code_generation_activity_count": 10}],
	 "totals_by_ide": [{"ide": "vscode", "code_acceptance_activity_count": 4}],
	 "totals_by_model_feature": [{"model": "gpt-4o", "feature": "chat_panel_agent_mode", "user_initiated_interaction_count": 5}],
	 "totals_by_language_model": [{"language": "go", "model": "gpt-4o", "code_generation_activity_count": 10}]},
	{"user_login": "bob", "user_id": 2, "day": "2024-01-02", "user_initiated_interaction_count": 3}
]`

func TestBuild_AllCharts(t *testing.T) {
	d, err := Build(context.Background(), decodeRecords(t, fullFixture), DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, 2, d.Records)
	require.Equal(t, []string{
		TitleTopUsers(10),
		TitleLanguageGenerations,
		TitleIDEAcceptances,
		TitleCompletionsVsAccepted(10),
		TitleDailyActiveUsers,
		TitleModelUsage,
		TitleFeatureUsage,
		TitleAcceptanceRate(10),
		TitleLanguageModel,
		TitleFeatureModel,
		TitleLanguageInteractions,
		TitleLanguagesPerDay(8),
		TitleModelsPerDay,
		TitleModelsPerFeature,
		TitleWeeklyActiveUsers,
	}, titles(d))

	require.Equal(t, 2, d.Summary.ActiveUsers)
	require.Equal(t, "40.0", d.Summary.AcceptanceRate)

	feature, ok := d.Chart(TitleFeatureUsage)
	require.True(t, ok)
	require.Equal(t, KindBar, feature.Kind)
	entries := feature.Data.([]aggregation.Entry)
	require.Equal(t, "Agent", entries[0].Label)

	heatmap, ok := d.Chart(TitleFeatureModel)
	require.True(t, ok)
	m := heatmap.Data.(aggregation.Matrix)
	require.Equal(t, []string{"Agent"}, m.Rows)
	require.Equal(t, []string{"gpt-4o"}, m.Columns)
}

func TestBuild_OmitsOptionalCharts(t *testing.T) {
	d, err := Build(context.Background(), decodeRecords(t, `[{"user_login": "a", "user_id": 1}]`), DefaultOptions())
	require.NoError(t, err)

	got := titles(d)
	require.NotContains(t, got, TitleLanguageInteractions)
	require.NotContains(t, got, TitleModelsPerFeature)
	require.NotContains(t, got, TitleWeeklyActiveUsers)
	require.Contains(t, got, TitleLanguagesPerDay(8), "a record without a day still yields the unknown day")
	require.Contains(t, got, TitleModelUsage)
}

func TestBuild_Empty(t *testing.T) {
	d, err := Build(context.Background(), nil, DefaultOptions())
	require.NoError(t, err)
	require.True(t, d.Empty())
	require.Empty(t, d.Charts)
	require.Equal(t, aggregation.NoModel, d.Summary.MostUsedModel)
}

func TestBuild_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, decodeRecords(t, fullFixture), DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuild_RespectsOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.TopN = 1
	opts.TopCategories = 3

	d, err := Build(context.Background(), decodeRecords(t, fullFixture), opts)
	require.NoError(t, err)

	top, ok := d.Chart(TitleTopUsers(1))
	require.True(t, ok)
	require.Equal(t, "User Interaction Count (Top 1)", top.Title)
	require.Len(t, top.Data.([]aggregation.Entry), 1)

	got := titles(d)
	require.Contains(t, got, "Completions vs. Acceptances (Top 1)")
	require.Contains(t, got, "Acceptance Rate % (Top 1 Users)")
	require.Contains(t, got, "Language Usage Per Day (Top 3 + Other)")
	require.NotContains(t, got, TitleTopUsers(10))
}
