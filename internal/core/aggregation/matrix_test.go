package aggregation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLanguageModelMatrix(t *testing.T) {
	records := decodeRecords(t, `[
		{"totals_by_language_model": [
			{"language": "go", "model": "m1", "code_generation_activity_count": 4},
			{"language": "python", "model": "m2", "code_generation_activity_count": 2}
		]},
		{"totals_by_language_model": [
			{"language": "go", "model": "m1", "code_generation_activity_count": 1},
			{"model": "m3", "code_generation_activity_count": 7}
		]}
	]`)

	m := LanguageModelMatrix(records, 40)
	require.Equal(t, []string{"go", "python", "unknown"}, m.Rows)
	require.Equal(t, []string{"m1", "m2", "m3"}, m.Columns)
	require.Len(t, m.Cells, 9)
	require.True(t, dec(5).Equal(m.Value("go", "m1")))
	require.True(t, m.Value("go", "m2").IsZero())

	require.Equal(t, Cell{X: 0, Y: 0, Value: m.Cells[0].Value}, m.Cells[0])
	require.True(t, dec(5).Equal(m.Cells[0].Value))
	last := m.Cells[8]
	require.Equal(t, 2, last.X)
	require.Equal(t, 2, last.Y)
	require.True(t, dec(7).Equal(last.Value))
}

func TestLanguageModelMatrix_RowCapKeepsFirstSeen(t *testing.T) {
	var entries []string
	for i := 0; i < 45; i++ {
		entries = append(entries, fmt.Sprintf(`{"language": "lang%02d", "model": "m%02d", "code_generation_activity_count": %d}`, i, i, i))
	}
	records := decodeRecords(t, `[{"totals_by_language_model": [`+strings.Join(entries, ",")+`]}]`)

	m := LanguageModelMatrix(records, 40)
	require.Len(t, m.Rows, 40)
	require.Equal(t, "lang00", m.Rows[0])
	require.Equal(t, "lang39", m.Rows[39])
	require.Len(t, m.Columns, 40, "columns come only from kept rows")
	require.Len(t, m.Cells, 1600)
}

func TestFeatureModelMatrix_Fallback(t *testing.T) {
	records := decodeRecords(t, `[
		{"totals_by_model_feature": [{"model": "m1", "feature": "chat_inline", "user_initiated_interaction_count": 2}],
		 "totals_by_feature": [{"feature": "chat_inline", "user_initiated_interaction_count": 99}]},
		{"totals_by_feature": [{"feature": "code_completion", "user_initiated_interaction_count": 3}]},
		{"totals_by_model_feature": [],
		 "totals_by_feature": [{"feature": "ignored", "user_initiated_interaction_count": 5}]}
	]`)

	m := FeatureModelMatrix(records)
	require.Equal(t, []string{"chat_inline", "code_completion"}, m.Rows)
	require.Equal(t, []string{"m1", AllModelsLabel}, m.Columns)
	require.True(t, dec(2).Equal(m.Value("chat_inline", "m1")))
	require.True(t, dec(3).Equal(m.Value("code_completion", AllModelsLabel)))
	require.Len(t, m.Cells, 4)

	stacked := m.ByColumn()
	require.Equal(t, m.Rows, stacked.Categories)
	require.Len(t, stacked.Series, 2)
	require.Equal(t, "m1", stacked.Series[0].Name)
	requireDecimals(t, []int64{2, 0}, stacked.Series[0].Data)
	requireDecimals(t, []int64{0, 3}, stacked.Series[1].Data)
}

func TestCrossTab_Empty(t *testing.T) {
	m := FeatureModelMatrix(nil)
	require.True(t, m.Empty())
	require.Empty(t, m.Cells)
}
