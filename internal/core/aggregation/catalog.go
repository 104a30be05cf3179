package aggregation

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// FeatureCatalog names the feature identifiers the summary treats as chat
// features and carries display-name overrides. It is loaded once at startup.
type FeatureCatalog struct {
	ChatFeatures []string          `yaml:"chat_features"`
	AgentFeature string            `yaml:"agent_feature"`
	DisplayNames map[string]string `yaml:"display_names"` // keyed by the formatted name
}

// DefaultFeatureCatalog returns the built-in catalog.
func DefaultFeatureCatalog() FeatureCatalog {
	return FeatureCatalog{
		ChatFeatures: []string{
			"chat_panel_agent_mode",
			"chat_panel_unknown_mode",
			"chat_panel_ask_mode",
			"chat_inline",
			"chat_panel_custom_mode",
			"chat_panel_edit_mode",
		},
		AgentFeature: "chat_panel_agent_mode",
		DisplayNames: map[string]string{
			"Chat Inline": "Inline Chat",
		},
	}
}

// LoadFeatureCatalog reads a catalog from a YAML file. An empty path yields
// the default catalog. Keys absent from the file keep their defaults; display
// names are merged over the defaults.
func LoadFeatureCatalog(path string) (FeatureCatalog, error) {
	catalog := DefaultFeatureCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FeatureCatalog{}, fmt.Errorf("reading feature catalog %s: %w", path, err)
	}

	var raw FeatureCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return FeatureCatalog{}, fmt.Errorf("parsing feature catalog %s: %w", path, err)
	}

	if len(raw.ChatFeatures) > 0 {
		catalog.ChatFeatures = raw.ChatFeatures
	}
	if raw.AgentFeature != "" {
		catalog.AgentFeature = raw.AgentFeature
	}
	for name, display := range raw.DisplayNames {
		if strings.TrimSpace(display) == "" {
			return FeatureCatalog{}, fmt.Errorf("feature catalog %s: display name for %q must not be empty", path, name)
		}
		catalog.DisplayNames[name] = display
	}

	if !catalog.IsChat(catalog.AgentFeature) {
		return FeatureCatalog{}, fmt.Errorf("feature catalog %s: agent_feature %q is not a chat feature", path, catalog.AgentFeature)
	}
	return catalog, nil
}

// IsChat reports whether feature is one of the chat features.
func (c FeatureCatalog) IsChat(feature string) bool {
	return slices.Contains(c.ChatFeatures, feature)
}

// DisplayName turns a raw feature identifier into a readable label:
// "chat_panel_" prefix and "_mode" suffix dropped, words title-cased, then
// overrides applied. An empty identifier is "Unknown".
func (c FeatureCatalog) DisplayName(raw string) string {
	if raw == "" {
		return "Unknown"
	}
	name := strings.TrimPrefix(raw, "chat_panel_")
	name = strings.TrimSuffix(name, "_mode")

	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p != "" {
			r, n := utf8.DecodeRuneInString(p)
			parts[i] = string(unicode.ToUpper(r)) + p[n:]
		}
	}
	name = strings.Join(parts, " ")

	if override, ok := c.DisplayNames[name]; ok {
		return override
	}
	return name
}
