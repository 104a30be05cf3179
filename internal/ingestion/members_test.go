package ingestion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMembers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		members []string
	}{
		{name: "strings", input: `["Alice", "bob", "  "]`, members: []string{"alice", "bob"}},
		{
			name:    "objects in priority order",
			input:   `[{"login": "Alice", "name": "ignored"}, {"login": "", "user_login": "BOB"}, {"user": "carol"}, {"name": "Dave"}]`,
			members: []string{"alice", "bob", "carol", "dave"},
		},
		{name: "wrapper object", input: `{"members": [{"login": "eve"}]}`, members: []string{"eve"}},
		{name: "json lines", input: "{\"login\": \"x\"}\n\"Y\"\n", members: []string{"x", "y"}},
		{name: "numeric login", input: `[{"login": 42}]`, members: []string{"42"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseMembers(tt.input)
			require.NoError(t, err)
			require.Equal(t, len(tt.members), set.Len())
			for _, m := range tt.members {
				require.True(t, set.Has(m), "missing %q", m)
			}
		})
	}
}

func TestParseMembers_Errors(t *testing.T) {
	_, err := ParseMembers(`[]`)
	require.ErrorIs(t, err, ErrEmptyResult)
	require.Contains(t, err.Error(), "members file is empty")

	_, err = ParseMembers(`[{"id": 1}, 5, {"login": null}]`)
	require.ErrorIs(t, err, ErrEmptyResult)
	require.Contains(t, err.Error(), "no recognizable login fields")

	_, err = ParseMembers("{\"login\": \"a\"}\nnot json\n")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, 2, perr.Line)
}
