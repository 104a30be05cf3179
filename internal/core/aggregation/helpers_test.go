package aggregation

import (
	"encoding/json"
	"testing"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func decodeRecords(t *testing.T, raw string) []v1.UsageRecord {
	t.Helper()
	var out []v1.UsageRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func requireEntries(t *testing.T, want []Entry, got []Entry) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.Equal(t, want[i].Label, got[i].Label, "label at %d", i)
		require.True(t, want[i].Value.Equal(got[i].Value), "value at %d: want %s got %s", i, want[i].Value, got[i].Value)
	}
}

func requireDecimals(t *testing.T, want []int64, got []decimal.Decimal) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.True(t, dec(want[i]).Equal(got[i]), "value at %d: want %d got %s", i, want[i], got[i])
	}
}
