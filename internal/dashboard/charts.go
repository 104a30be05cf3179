package dashboard

import (
	"fmt"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/abhi-singhs/copilot-metrics-analysis/internal/core/aggregation"
)

// Chart titles.
const (
	TitleLanguageGenerations   = "Code Generations by Language"
	TitleIDEAcceptances        = "Code Acceptances by IDE"
	TitleDailyActiveUsers      = "Daily Active Users"
	TitleModelUsage            = "Model Usage"
	TitleFeatureUsage          = "Feature Usage"
	TitleLanguageModel         = "Code Generations: Language vs Model"
	TitleFeatureModel          = "Interactions: Feature vs Model"
	TitleLanguageInteractions  = "Language Usage (Interactions)"
	TitleModelsPerDay          = "Model Usage Per Day (Chat Requests)"
	TitleModelsPerFeature      = "Model Usage per Feature"
	TitleWeeklyActiveUsers     = "Weekly Active Users"
)

// Titles that name the configured limit.
func TitleTopUsers(n int) string { return fmt.Sprintf("User Interaction Count (Top %d)", n) }

func TitleCompletionsVsAccepted(n int) string {
	return fmt.Sprintf("Completions vs. Acceptances (Top %d)", n)
}

func TitleAcceptanceRate(n int) string { return fmt.Sprintf("Acceptance Rate %% (Top %d Users)", n) }

func TitleLanguagesPerDay(n int) string {
	return fmt.Sprintf("Language Usage Per Day (Top %d + Other)", n)
}

// builders run in this order; the dashboard lists charts in the same order.
var builders = []builder{
	topUsersChart,
	breakdownChart(TitleLanguageGenerations, KindPie, aggregation.LanguageGenerations),
	breakdownChart(TitleIDEAcceptances, KindDoughnut, aggregation.IDEAcceptances),
	completionsVsAcceptancesChart,
	dailyActiveUsersChart,
	breakdownChart(TitleModelUsage, KindPie, aggregation.ModelInteractions),
	featureUsageChart,
	acceptanceRateChart,
	languageModelChart,
	featureModelChart,
	languageInteractionsChart,
	languagesPerDayChart,
	modelsPerDayChart,
	modelsPerFeatureChart,
	weeklyActiveUsersChart,
}

func one(c Chart) []Chart { return []Chart{c} }

func topUsersChart(records []v1.UsageRecord, opts Options) []Chart {
	return one(Chart{Title: TitleTopUsers(opts.TopN), Kind: KindBar, Data: aggregation.TopUsersByInteractions(records, opts.TopN)})
}

func breakdownChart(title string, kind Kind, ex aggregation.Extractor) builder {
	return func(records []v1.UsageRecord, _ Options) []Chart {
		return one(Chart{Title: title, Kind: kind, Data: aggregation.Breakdown(records, ex)})
	}
}

func completionsVsAcceptancesChart(records []v1.UsageRecord, opts Options) []Chart {
	return one(Chart{Title: TitleCompletionsVsAccepted(opts.TopN), Kind: KindGroupedBar, Data: aggregation.CompletionsVsAcceptances(records, opts.TopN)})
}

func dailyActiveUsersChart(records []v1.UsageRecord, _ Options) []Chart {
	return one(Chart{Title: TitleDailyActiveUsers, Kind: KindLine, Data: aggregation.DailyActiveUsers(records)})
}

func featureUsageChart(records []v1.UsageRecord, opts Options) []Chart {
	entries := aggregation.Breakdown(records, aggregation.FeatureInteractions)
	for i := range entries {
		entries[i].Label = opts.Catalog.DisplayName(entries[i].Label)
	}
	return one(Chart{Title: TitleFeatureUsage, Kind: KindBar, Data: entries})
}

func acceptanceRateChart(records []v1.UsageRecord, opts Options) []Chart {
	return one(Chart{Title: TitleAcceptanceRate(opts.TopN), Kind: KindBar, Data: aggregation.AcceptanceRateByUser(records, opts.TopN)})
}

func languageModelChart(records []v1.UsageRecord, opts Options) []Chart {
	return one(Chart{Title: TitleLanguageModel, Kind: KindHeatmap, Data: aggregation.LanguageModelMatrix(records, opts.MatrixRowLimit)})
}

// displayRows swaps raw feature identifiers for display names.
func displayRows(m aggregation.Matrix, catalog aggregation.FeatureCatalog) []string {
	rows := make([]string, len(m.Rows))
	for i, row := range m.Rows {
		rows[i] = catalog.DisplayName(row)
	}
	return rows
}

func featureModelChart(records []v1.UsageRecord, opts Options) []Chart {
	m := aggregation.FeatureModelMatrix(records)
	display := m
	display.Rows = displayRows(m, opts.Catalog)
	return one(Chart{Title: TitleFeatureModel, Kind: KindHeatmap, Data: display})
}

// modelsPerFeatureChart stacks the feature/model matrix by model. Omitted when
// the matrix has no rows or no columns.
func modelsPerFeatureChart(records []v1.UsageRecord, opts Options) []Chart {
	m := aggregation.FeatureModelMatrix(records)
	if m.Empty() {
		return nil
	}
	stacked := m.ByColumn()
	stacked.Categories = displayRows(m, opts.Catalog)
	return one(Chart{Title: TitleModelsPerFeature, Kind: KindStackedBar, Data: stacked})
}

func languageInteractionsChart(records []v1.UsageRecord, _ Options) []Chart {
	entries := aggregation.Breakdown(records, aggregation.LanguageInteractions)
	if len(entries) == 0 {
		return nil
	}
	return one(Chart{Title: TitleLanguageInteractions, Kind: KindPie, Data: entries})
}

func languagesPerDayChart(records []v1.UsageRecord, opts Options) []Chart {
	return stackedPerDay(TitleLanguagesPerDay(opts.TopCategories), aggregation.LanguagesPerDay(records, opts.TopCategories))
}

func modelsPerDayChart(records []v1.UsageRecord, opts Options) []Chart {
	return stackedPerDay(TitleModelsPerDay, aggregation.ModelsPerDay(records, opts.TopCategories))
}

func stackedPerDay(title string, s aggregation.StackedSeries) []Chart {
	if len(s.Categories) == 0 {
		return nil
	}
	return one(Chart{Title: title, Kind: KindStackedArea, Data: s})
}

func weeklyActiveUsersChart(records []v1.UsageRecord, _ Options) []Chart {
	points := aggregation.WeeklyActiveUsers(records)
	if len(points) == 0 {
		return nil
	}
	return one(Chart{Title: TitleWeeklyActiveUsers, Kind: KindLine, Data: points})
}
