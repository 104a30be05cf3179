package aggregation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTopN(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		n       int
		want    []Entry
	}{
		{
			name:    "empty input",
			entries: nil,
			n:       10,
			want:    []Entry{},
		},
		{
			name:    "descending by value",
			entries: []Entry{{"a", dec(1)}, {"b", dec(3)}, {"c", dec(2)}},
			n:       10,
			want:    []Entry{{"b", dec(3)}, {"c", dec(2)}, {"a", dec(1)}},
		},
		{
			name:    "ties keep encounter order",
			entries: []Entry{{"x", dec(5)}, {"y", dec(5)}, {"z", dec(7)}, {"w", dec(5)}},
			n:       10,
			want:    []Entry{{"z", dec(7)}, {"x", dec(5)}, {"y", dec(5)}, {"w", dec(5)}},
		},
		{
			name:    "truncates to n",
			entries: []Entry{{"a", dec(1)}, {"b", dec(2)}, {"c", dec(3)}},
			n:       2,
			want:    []Entry{{"c", dec(3)}, {"b", dec(2)}},
		},
		{
			name:    "n of zero keeps all",
			entries: []Entry{{"a", dec(1)}, {"b", dec(2)}},
			n:       0,
			want:    []Entry{{"b", dec(2)}, {"a", dec(1)}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TopN(tc.entries, tc.n)
			require.NotNil(t, got)
			requireEntries(t, tc.want, got)
		})
	}
}

func TestTopK_DoesNotMutateInput(t *testing.T) {
	in := []string{"b", "a", "c"}
	out := TopK(in, strings.Compare, 2)
	require.Equal(t, []string{"a", "b"}, out)
	require.Equal(t, []string{"b", "a", "c"}, in)
}

func TestTopN_Idempotent(t *testing.T) {
	entries := []Entry{{"a", dec(2)}, {"b", dec(9)}, {"c", dec(2)}, {"d", dec(4)}}
	once := TopN(entries, 3)
	twice := TopN(once, 3)
	requireEntries(t, once, twice)
}

func TestCounters(t *testing.T) {
	require.Equal(t, []string{CounterAcceptances, CounterCompletions, CounterInteractions}, CounterNames())
}
