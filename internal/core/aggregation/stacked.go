package aggregation

import (
	"sort"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/shopspring/decimal"
)

// OtherLabel names the series that collects every category outside the top K.
const OtherLabel = "Other"

// NamedSeries is one series of a grouped or stacked chart.
type NamedSeries struct {
	Name string            `json:"name" yaml:"name"`
	Data []decimal.Decimal `json:"data" yaml:"data"`
}

// StackedSeries is a set of series aligned to shared categories.
type StackedSeries struct {
	Categories []string      `json:"categories" yaml:"categories"`
	Series     []NamedSeries `json:"series" yaml:"series"`
}

// StackPerDay builds a per-day stacked series for the k labels with the
// highest overall total, plus an Other series for the remainder. Days are
// ascending; records without a day fall under UnknownLabel. Other is always
// present, even when it is zero on every day.
func StackPerDay(records []v1.UsageRecord, ex Extractor, k int) StackedSeries {
	totals := NewSums()
	perDay := make(map[string]*Sums)
	for _, r := range records {
		day := DayLabel(r)
		sums, ok := perDay[day]
		if !ok {
			sums = NewSums()
			perDay[day] = sums
		}
		ex(r, func(label string, v decimal.Decimal) {
			sums.Add(label, v)
			totals.Add(label, v)
		})
	}

	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days)

	top := TopN(totals.Entries(), k)
	inTop := make(map[string]struct{}, len(top))
	series := make([]NamedSeries, 0, len(top)+1)
	for _, e := range top {
		inTop[e.Label] = struct{}{}
		data := make([]decimal.Decimal, len(days))
		for i, day := range days {
			data[i] = perDay[day].Get(e.Label)
		}
		series = append(series, NamedSeries{Name: e.Label, Data: data})
	}

	other := make([]decimal.Decimal, len(days))
	for i, day := range days {
		rest := decimal.Zero
		for _, e := range perDay[day].Entries() {
			if _, ok := inTop[e.Label]; !ok {
				rest = rest.Add(e.Value)
			}
		}
		other[i] = rest
	}
	series = append(series, NamedSeries{Name: OtherLabel, Data: other})

	return StackedSeries{Categories: days, Series: series}
}

// LanguagesPerDay stacks language activity (generations, else interactions) per day.
func LanguagesPerDay(records []v1.UsageRecord, k int) StackedSeries {
	return StackPerDay(records, LanguageActivity, k)
}

// ModelsPerDay stacks model interactions per day.
func ModelsPerDay(records []v1.UsageRecord, k int) StackedSeries {
	return StackPerDay(records, ModelInteractions, k)
}
