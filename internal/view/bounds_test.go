package view

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDayBounds(t *testing.T) {
	records := decodeRecords(t, fixture)
	require.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, DayBounds(records))
	require.Empty(t, DayBounds(nil))

	from, to := Span(DayBounds(records))
	require.Equal(t, "2024-01-01", from)
	require.Equal(t, "2024-01-03", to)
}

func TestQuickRange(t *testing.T) {
	days := []string{"2024-01-01", "2024-02-15", "2024-03-01"}

	tests := []struct {
		name     string
		rng      string
		wantFrom string
		wantTo   string
		wantErr  bool
	}{
		{name: "all", rng: RangeAll, wantFrom: "2024-01-01", wantTo: "2024-03-01"},
		{name: "last 7 days", rng: "7", wantFrom: "2024-02-24", wantTo: "2024-03-01"},
		{name: "last 1 day", rng: "1", wantFrom: "2024-03-01", wantTo: "2024-03-01"},
		{name: "clamped to first day", rng: "365", wantFrom: "2024-01-01", wantTo: "2024-03-01"},
		{name: "zero", rng: "0", wantErr: true},
		{name: "garbage", rng: "week", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from, to, err := QuickRange(days, tc.rng)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidRange)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantFrom, from)
			require.Equal(t, tc.wantTo, to)
		})
	}

	_, _, err := QuickRange(nil, RangeAll)
	require.ErrorIs(t, err, ErrInvalidRange)
}
