package aggregation

import (
	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/shopspring/decimal"
)

// Extractor emits the labelled values one record contributes to a breakdown.
type Extractor func(r v1.UsageRecord, emit func(label string, value decimal.Decimal))

// Breakdown sums every emitted value per label across records.
// Labels come back in first-seen order; callers rank with TopN.
func Breakdown(records []v1.UsageRecord, ex Extractor) []Entry {
	return breakdownSums(records, ex).Entries()
}

func breakdownSums(records []v1.UsageRecord, ex Extractor) *Sums {
	sums := NewSums()
	for _, r := range records {
		ex(r, sums.Add)
	}
	return sums
}

// SumBy groups records by key and sums counter per group.
func SumBy(records []v1.UsageRecord, key func(v1.UsageRecord) string, counter Counter) []Entry {
	return Breakdown(records, func(r v1.UsageRecord, emit func(string, decimal.Decimal)) {
		emit(key(r), counter(r))
	})
}

// RankUsers returns the n logins with the highest total of counter.
func RankUsers(records []v1.UsageRecord, counter Counter, n int) []Entry {
	return TopN(SumBy(records, v1.UsageRecord.Login, counter), n)
}

// TopUsersByInteractions ranks users by user-initiated interactions.
func TopUsersByInteractions(records []v1.UsageRecord, n int) []Entry {
	return RankUsers(records, v1.UsageRecord.Interactions, n)
}

// LanguageGenerations sums code generations per language.
func LanguageGenerations(r v1.UsageRecord, emit func(string, decimal.Decimal)) {
	for _, lf := range r.TotalsByLanguageFeature {
		emit(lf.Label(), lf.Generations())
	}
}

// LanguageInteractions sums interactions per language, falling back to
// generations for entries that carry no interaction count.
func LanguageInteractions(r v1.UsageRecord, emit func(string, decimal.Decimal)) {
	for _, lf := range r.TotalsByLanguageFeature {
		emit(lf.Label(), v1.FirstNonZero(lf.Interactions(), lf.Generations()))
	}
}

// LanguageActivity prefers generations and falls back to interactions.
func LanguageActivity(r v1.UsageRecord, emit func(string, decimal.Decimal)) {
	for _, lf := range r.TotalsByLanguageFeature {
		emit(lf.Label(), v1.FirstNonZero(lf.Generations(), lf.Interactions()))
	}
}

// IDEAcceptances sums code acceptances per IDE.
func IDEAcceptances(r v1.UsageRecord, emit func(string, decimal.Decimal)) {
	for _, ide := range r.TotalsByIDE {
		emit(ide.Label(), ide.Acceptances())
	}
}

// ModelInteractions sums interactions per model.
func ModelInteractions(r v1.UsageRecord, emit func(string, decimal.Decimal)) {
	for _, mf := range r.TotalsByModelFeature {
		emit(mf.ModelLabel(), mf.Interactions())
	}
}

// FeatureInteractions sums interactions per feature.
func FeatureInteractions(r v1.UsageRecord, emit func(string, decimal.Decimal)) {
	for _, f := range r.TotalsByFeature {
		emit(f.Label(), f.Interactions())
	}
}

// NamedCounter labels a counter for display in a comparison.
type NamedCounter struct {
	Name    string
	Counter Counter
}

// CompareCounters sums several counters per key. Categories are the top n
// keys by the first counter; every series is aligned to those categories.
func CompareCounters(records []v1.UsageRecord, key func(v1.UsageRecord) string, n int, counters ...NamedCounter) StackedSeries {
	if len(counters) == 0 {
		return StackedSeries{Categories: []string{}, Series: []NamedSeries{}}
	}

	sums := make([]*Sums, len(counters))
	for i := range counters {
		sums[i] = NewSums()
	}
	for _, r := range records {
		k := key(r)
		for i, c := range counters {
			sums[i].Add(k, c.Counter(r))
		}
	}

	top := TopN(sums[0].Entries(), n)
	out := StackedSeries{
		Categories: make([]string, len(top)),
		Series:     make([]NamedSeries, len(counters)),
	}
	for i, e := range top {
		out.Categories[i] = e.Label
	}
	for i, c := range counters {
		data := make([]decimal.Decimal, len(top))
		for j, e := range top {
			data[j] = sums[i].Get(e.Label)
		}
		out.Series[i] = NamedSeries{Name: c.Name, Data: data}
	}
	return out
}

// CompletionsVsAcceptances compares per-user completions and acceptances,
// ordered by completions.
func CompletionsVsAcceptances(records []v1.UsageRecord, n int) StackedSeries {
	return CompareCounters(records, v1.UsageRecord.Login, n,
		NamedCounter{Name: "Completions", Counter: v1.UsageRecord.Completions},
		NamedCounter{Name: "Acceptances", Counter: v1.UsageRecord.Acceptances},
	)
}
