package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const usageExport = `{"user_login": "alice", "user_id": 1, "day": "2024-01-01", "user_initiated_interaction_count": 5, "code_generation_activity_count": 10, "code_acceptance_activity_count": 4}
# second day
{"user_login": "bob", "user_id": 2, "day": "2024-01-02", "user_initiated_interaction_count": 3}
{"user_login": "carol", "user_id": 3, "day": "2024-01-09", "user_initiated_interaction_count": 9}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath := ""
	cmd := NewAnalyzeCmd(&configPath)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyze_JSON(t *testing.T) {
	dir := t.TempDir()
	export := writeFile(t, dir, "usage.jsonl", usageExport)
	members := writeFile(t, dir, "members.json", `{"members": [{"login": "Alice"}, {"login": "carol"}]}`)
	csvPath := filepath.Join(dir, "users.csv")

	out, err := runCmd(t, export,
		"--members", members, "--members-only",
		"--sort", "interactions", "--sort", "interactions",
		"--csv", csvPath, "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Status struct {
			ViewRecords int `json:"view_records"`
			Members     int `json:"members"`
		} `json:"status"`
		Summary struct {
			ActiveUsers int `json:"active_users"`
		} `json:"summary"`
		Cards []struct {
			Label string `json:"label"`
		} `json:"cards"`
		Users []struct {
			Login string `json:"user_login"`
		} `json:"users"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, 2, doc.Status.ViewRecords)
	require.Equal(t, 2, doc.Status.Members)
	require.Equal(t, 2, doc.Summary.ActiveUsers)
	require.Len(t, doc.Cards, 11)
	require.Len(t, doc.Users, 2)
	require.Equal(t, "carol", doc.Users[0].Login)

	csv, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[1], "carol,3,9,"))
}

func TestAnalyze_YAMLWithRange(t *testing.T) {
	dir := t.TempDir()
	export := writeFile(t, dir, "usage.jsonl", usageExport)

	out, err := runCmd(t, export, "--range", "7", "--search", "CAR")
	require.NoError(t, err)

	var doc struct {
		Status struct {
			ViewRecords int `yaml:"view_records"`
			Criteria    struct {
				Search string `yaml:"search"`
				From   string `yaml:"from"`
				To     string `yaml:"to"`
			} `yaml:"criteria"`
		} `yaml:"status"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Equal(t, 1, doc.Status.ViewRecords)
	require.Equal(t, "car", doc.Status.Criteria.Search)
	require.Equal(t, "2024-01-03", doc.Status.Criteria.From)
	require.Equal(t, "2024-01-09", doc.Status.Criteria.To)
}

func TestAnalyze_Errors(t *testing.T) {
	dir := t.TempDir()
	export := writeFile(t, dir, "usage.jsonl", usageExport)
	broken := writeFile(t, dir, "broken.jsonl", "{\"user_login\": \"a\"}\n{\n")

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{name: "missing file", args: []string{filepath.Join(dir, "nope.json")}, message: "reading usage export"},
		{name: "parse error", args: []string{broken}, message: "line 2: "},
		{name: "bad format", args: []string{export, "--format", "xml"}, message: "unsupported format"},
		{name: "bad sort", args: []string{export, "--sort", "height"}, message: "unknown"},
		{name: "bad range", args: []string{export, "--range=-3"}, message: "invalid quick range"},
		{name: "no file", args: []string{}, message: "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, tt.args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.message)
		})
	}
}
