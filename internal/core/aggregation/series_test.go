package aggregation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day    string
		want   string
		wantOK bool
	}{
		{day: "2024-01-01", want: "2024-01-01", wantOK: true}, // Monday
		{day: "2024-01-07", want: "2024-01-01", wantOK: true}, // Sunday
		{day: "2024-05-05", want: "2024-04-29", wantOK: true},
		{day: "2024-03-01", want: "2024-02-26", wantOK: true}, // crosses a leap month
		{day: "", wantOK: false},
		{day: "2024/01/01", wantOK: false},
	}

	for _, tc := range tests {
		t.Run(tc.day, func(t *testing.T) {
			got, ok := WeekStart(tc.day)
			require.Equal(t, tc.wantOK, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDailyActiveUsers(t *testing.T) {
	records := decodeRecords(t, `[
		{"user_id": 1, "day": "2024-01-02"},
		{"user_id": 2, "day": "2024-01-01"},
		{"user_id": 1, "day": "2024-01-02"},
		{"user_id": "1", "day": "2024-01-02"},
		{"user_id": 3}
	]`)

	require.Equal(t, []Point{
		{Key: "2024-01-02", Value: 2},
		{Key: "2024-01-01", Value: 1},
		{Key: "unknown", Value: 1},
	}, DailyActiveUsers(records))
}

func TestWeeklyActiveUsers(t *testing.T) {
	records := decodeRecords(t, `[
		{"user_id": 1, "day": "2024-01-09"},
		{"user_id": 1, "day": "2024-01-02"},
		{"user_id": 2, "day": "2024-01-07"},
		{"user_id": 3},
		{"user_id": 4, "day": "not-a-day"},
		{"user_id": 2, "day": "2024-01-10"},
		{"user_id": 5, "day": "2024-01-14"}
	]`)

	require.Equal(t, []Point{
		{Key: "2024-01-01", Value: 2},
		{Key: "2024-01-08", Value: 3},
	}, WeeklyActiveUsers(records))
	require.Equal(t, 3, LatestWeekActiveUsers(records))
	require.Equal(t, 0, LatestWeekActiveUsers(nil))
}

func TestDistinctCounts(t *testing.T) {
	records := decodeRecords(t, `[
		{"user_id": 1, "day": "2024-01-01"},
		{"user_id": 1, "day": "2024-01-02"},
		{"day": "2024-01-02"},
		{}
	]`)

	require.Equal(t, 2, DistinctUsers(records))
	require.Equal(t, 3, DistinctDays(records), "the missing day is one more value")
	require.Equal(t, 0, DistinctDays(nil))

	dated := decodeRecords(t, `[{"day": "2024-01-01"}, {"day": "2024-01-01"}]`)
	require.Equal(t, 1, DistinctDays(dated))
}

func TestStackPerDay(t *testing.T) {
	records := decodeRecords(t, `[
		{"day": "2024-01-02", "totals_by_language_feature": [
			{"language": "go", "code_generation_activity_count": 5},
			{"language": "rust", "code_generation_activity_count": 1},
			{"language": "c", "code_generation_activity_count": 0, "user_initiated_interaction_count": 2}
		]},
		{"day": "2024-01-01", "totals_by_language_feature": [
			{"language": "go", "code_generation_activity_count": 3},
			{"language": "python", "code_generation_activity_count": 4}
		]},
		{"totals_by_language_feature": [{"language": "go", "code_generation_activity_count": 1}]}
	]`)

	got := LanguagesPerDay(records, 2)
	require.Equal(t, []string{"2024-01-01", "2024-01-02", "unknown"}, got.Categories)
	require.Len(t, got.Series, 3)

	require.Equal(t, "go", got.Series[0].Name)
	requireDecimals(t, []int64{3, 5, 1}, got.Series[0].Data)
	require.Equal(t, "python", got.Series[1].Name)
	requireDecimals(t, []int64{4, 0, 0}, got.Series[1].Data)
	require.Equal(t, OtherLabel, got.Series[2].Name)
	requireDecimals(t, []int64{0, 3, 0}, got.Series[2].Data)
}

func TestStackPerDay_OtherAlwaysPresent(t *testing.T) {
	records := decodeRecords(t, `[{"day": "2024-01-01"}]`)

	got := ModelsPerDay(records, 8)
	require.Equal(t, []string{"2024-01-01"}, got.Categories)
	require.Len(t, got.Series, 1)
	require.Equal(t, OtherLabel, got.Series[0].Name)
	requireDecimals(t, []int64{0}, got.Series[0].Data)

	empty := ModelsPerDay(nil, 8)
	require.Empty(t, empty.Categories)
}
