package aggregation

import (
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	c := DefaultFeatureCatalog()

	tests := []struct {
		raw  string
		want string
	}{
		{raw: "chat_panel_agent_mode", want: "Agent"},
		{raw: "chat_panel_ask_mode", want: "Ask"},
		{raw: "chat_inline", want: "Inline Chat"},
		{raw: "code_completion", want: "Code Completion"},
		{raw: "agent_edit", want: "Agent Edit"},
		{raw: "chat__x", want: "Chat  X"},
		{raw: "éditeur_mode", want: "Éditeur"},
		{raw: "chat_panel_ñandú_ask_mode", want: "Ñandú Ask"},
		{raw: "", want: "Unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got := c.DisplayName(tc.raw)
			require.Equal(t, tc.want, got)
			require.True(t, utf8.ValidString(got))
		})
	}
}

func TestLoadFeatureCatalog(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		c, err := LoadFeatureCatalog("")
		require.NoError(t, err)
		require.Equal(t, DefaultFeatureCatalog(), c)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := LoadFeatureCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("overrides merge over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "features.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
display_names:
  Code Completion: Completions
`), 0o644))

		c, err := LoadFeatureCatalog(path)
		require.NoError(t, err)
		require.Len(t, c.ChatFeatures, 6)
		require.Equal(t, "Completions", c.DisplayName("code_completion"))
		require.Equal(t, "Inline Chat", c.DisplayName("chat_inline"))
	})

	t.Run("agent feature must be a chat feature", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "features.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
chat_features: [chat_inline]
`), 0o644))

		_, err := LoadFeatureCatalog(path)
		require.ErrorContains(t, err, "agent_feature")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "features.yaml")
		require.NoError(t, os.WriteFile(path, []byte("chat_features: [unterminated"), 0o644))

		_, err := LoadFeatureCatalog(path)
		require.Error(t, err)
	})
}
