package aggregation

import (
	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/shopspring/decimal"
)

// AllModelsLabel is the model column used when a record has no model breakdown.
const AllModelsLabel = "(all models)"

// Cell is one heatmap cell. X indexes Columns and Y indexes Rows.
type Cell struct {
	X     int             `json:"x" yaml:"x"`
	Y     int             `json:"y" yaml:"y"`
	Value decimal.Decimal `json:"value" yaml:"value"`
}

// Matrix is a two-dimensional cross-tabulation with a dense cell grid.
type Matrix struct {
	Rows    []string `json:"rows" yaml:"rows"`
	Columns []string `json:"columns" yaml:"columns"`
	Cells   []Cell   `json:"cells" yaml:"cells"`

	values map[[2]string]decimal.Decimal
}

// Value returns the cell for (row, col), zero when the pair never occurred.
func (m Matrix) Value(row, col string) decimal.Decimal {
	return m.values[[2]string{row, col}]
}

// Empty reports whether the matrix has no rows or no columns.
func (m Matrix) Empty() bool {
	return len(m.Rows) == 0 || len(m.Columns) == 0
}

// ByColumn turns the matrix into a stacked series: one category per row and
// one series per column.
func (m Matrix) ByColumn() StackedSeries {
	out := StackedSeries{
		Categories: append([]string{}, m.Rows...),
		Series:     make([]NamedSeries, len(m.Columns)),
	}
	for i, col := range m.Columns {
		data := make([]decimal.Decimal, len(m.Rows))
		for j, row := range m.Rows {
			data[j] = m.Value(row, col)
		}
		out.Series[i] = NamedSeries{Name: col, Data: data}
	}
	return out
}

// PairExtractor emits the (row, column, value) triples one record contributes.
type PairExtractor func(r v1.UsageRecord, emit func(row, col string, value decimal.Decimal))

// CrossTab sums values per (row, column). Rows keep first-seen order and are
// truncated to the first rowLimit (<= 0 keeps all). Columns are the labels
// seen across the kept rows, in first-seen order. The cell grid is
// zero-filled, so len(Cells) == len(Rows)*len(Columns).
func CrossTab(records []v1.UsageRecord, ex PairExtractor, rowLimit int) Matrix {
	rows := NewSums()
	perRow := make(map[string]*Sums)
	for _, r := range records {
		ex(r, func(row, col string, v decimal.Decimal) {
			rows.Add(row, decimal.Zero)
			cols, ok := perRow[row]
			if !ok {
				cols = NewSums()
				perRow[row] = cols
			}
			cols.Add(col, v)
		})
	}

	kept := rows.Entries()
	if rowLimit > 0 && len(kept) > rowLimit {
		kept = kept[:rowLimit]
	}

	m := Matrix{
		Rows:    make([]string, len(kept)),
		Columns: []string{},
		values:  make(map[[2]string]decimal.Decimal),
	}
	seenCol := make(map[string]struct{})
	for i, e := range kept {
		m.Rows[i] = e.Label
		for _, c := range perRow[e.Label].Entries() {
			m.values[[2]string{e.Label, c.Label}] = c.Value
			if _, ok := seenCol[c.Label]; !ok {
				seenCol[c.Label] = struct{}{}
				m.Columns = append(m.Columns, c.Label)
			}
		}
	}

	m.Cells = make([]Cell, 0, len(m.Rows)*len(m.Columns))
	for y, row := range m.Rows {
		for x, col := range m.Columns {
			m.Cells = append(m.Cells, Cell{X: x, Y: y, Value: m.Value(row, col)})
		}
	}
	return m
}

// LanguageModelPairs emits code generations per (language, model).
func LanguageModelPairs(r v1.UsageRecord, emit func(string, string, decimal.Decimal)) {
	for _, lm := range r.TotalsByLanguageModel {
		emit(lm.LanguageLabel(), lm.ModelLabel(), lm.Generations())
	}
}

// FeatureModelPairs emits interactions per (feature, model). A record with no
// totals_by_model_feature at all contributes its totals_by_feature under
// AllModelsLabel instead.
func FeatureModelPairs(r v1.UsageRecord, emit func(string, string, decimal.Decimal)) {
	if r.TotalsByModelFeature == nil {
		for _, f := range r.TotalsByFeature {
			emit(f.Label(), AllModelsLabel, f.Interactions())
		}
		return
	}
	for _, mf := range r.TotalsByModelFeature {
		emit(mf.FeatureLabel(), mf.ModelLabel(), mf.Interactions())
	}
}

// LanguageModelMatrix cross-tabulates generations by language and model.
func LanguageModelMatrix(records []v1.UsageRecord, rowLimit int) Matrix {
	return CrossTab(records, LanguageModelPairs, rowLimit)
}

// FeatureModelMatrix cross-tabulates interactions by feature and model.
// Feature rows are not capped.
func FeatureModelMatrix(records []v1.UsageRecord) Matrix {
	return CrossTab(records, FeatureModelPairs, 0)
}
