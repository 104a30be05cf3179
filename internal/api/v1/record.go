package v1

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// UnknownLabel replaces a missing breakdown dimension (language, IDE, model, feature, day).
	UnknownLabel = "unknown"

	// UnknownLogin replaces a missing user login.
	UnknownLogin = "(unknown)"
)

// UsageRecord is one per-user per-day entry of a Copilot usage export.
// Every field is optional. Fields the dashboard does not read are ignored on decode.
type UsageRecord struct {
	UserID    UserID `json:"user_id"`
	UserLogin string `json:"user_login,omitempty"`

	// Day is the calendar day in YYYY-MM-DD form. Kept as text so lexicographic
	// comparison doubles as chronological comparison.
	Day string `json:"day,omitempty"`

	UserInitiatedInteractionCount decimal.NullDecimal `json:"user_initiated_interaction_count"`
	CodeGenerationActivityCount   decimal.NullDecimal `json:"code_generation_activity_count"`
	CodeAcceptanceActivityCount   decimal.NullDecimal `json:"code_acceptance_activity_count"`

	TotalsByFeature         []FeatureTotal         `json:"totals_by_feature,omitempty"`
	TotalsByLanguageFeature []LanguageFeatureTotal `json:"totals_by_language_feature,omitempty"`
	TotalsByIDE             []IDETotal             `json:"totals_by_ide,omitempty"`

	// TotalsByModelFeature distinguishes absent (nil) from present-but-empty.
	// The feature/model cross-tab falls back to totals_by_feature only when absent.
	TotalsByModelFeature  []ModelFeatureTotal  `json:"totals_by_model_feature"`
	TotalsByLanguageModel []LanguageModelTotal `json:"totals_by_language_model,omitempty"`
}

// Login returns the user login, or UnknownLogin when missing.
func (r UsageRecord) Login() string { return LabelOr(r.UserLogin, UnknownLogin) }

// Interactions returns user_initiated_interaction_count, zero when missing.
func (r UsageRecord) Interactions() decimal.Decimal {
	return NumberOr(r.UserInitiatedInteractionCount, decimal.Zero)
}

// Completions returns code_generation_activity_count, zero when missing.
func (r UsageRecord) Completions() decimal.Decimal {
	return NumberOr(r.CodeGenerationActivityCount, decimal.Zero)
}

// Acceptances returns code_acceptance_activity_count, zero when missing.
func (r UsageRecord) Acceptances() decimal.Decimal {
	return NumberOr(r.CodeAcceptanceActivityCount, decimal.Zero)
}

// FeatureTotal is one entry of totals_by_feature.
type FeatureTotal struct {
	Feature                       string              `json:"feature,omitempty"`
	UserInitiatedInteractionCount decimal.NullDecimal `json:"user_initiated_interaction_count"`
}

func (f FeatureTotal) Label() string { return LabelOr(f.Feature, UnknownLabel) }

func (f FeatureTotal) Interactions() decimal.Decimal {
	return NumberOr(f.UserInitiatedInteractionCount, decimal.Zero)
}

// LanguageFeatureTotal is one entry of totals_by_language_feature.
type LanguageFeatureTotal struct {
	Language                      string              `json:"language,omitempty"`
	Feature                       string              `json:"feature,omitempty"`
	CodeGenerationActivityCount   decimal.NullDecimal `json:"code_generation_activity_count"`
	UserInitiatedInteractionCount decimal.NullDecimal `json:"user_initiated_interaction_count"`
}

func (l LanguageFeatureTotal) Label() string { return LabelOr(l.Language, UnknownLabel) }

func (l LanguageFeatureTotal) Generations() decimal.Decimal {
	return NumberOr(l.CodeGenerationActivityCount, decimal.Zero)
}

func (l LanguageFeatureTotal) Interactions() decimal.Decimal {
	return NumberOr(l.UserInitiatedInteractionCount, decimal.Zero)
}

// IDETotal is one entry of totals_by_ide.
type IDETotal struct {
	IDE                         string              `json:"ide,omitempty"`
	CodeAcceptanceActivityCount decimal.NullDecimal `json:"code_acceptance_activity_count"`
}

func (i IDETotal) Label() string { return LabelOr(i.IDE, UnknownLabel) }

func (i IDETotal) Acceptances() decimal.Decimal {
	return NumberOr(i.CodeAcceptanceActivityCount, decimal.Zero)
}

// ModelFeatureTotal is one entry of totals_by_model_feature.
type ModelFeatureTotal struct {
	Model                         string              `json:"model,omitempty"`
	Feature                       string              `json:"feature,omitempty"`
	UserInitiatedInteractionCount decimal.NullDecimal `json:"user_initiated_interaction_count"`
}

func (m ModelFeatureTotal) ModelLabel() string   { return LabelOr(m.Model, UnknownLabel) }
func (m ModelFeatureTotal) FeatureLabel() string { return LabelOr(m.Feature, UnknownLabel) }

func (m ModelFeatureTotal) Interactions() decimal.Decimal {
	return NumberOr(m.UserInitiatedInteractionCount, decimal.Zero)
}

// LanguageModelTotal is one entry of totals_by_language_model.
type LanguageModelTotal struct {
	Language                    string              `json:"language,omitempty"`
	Model                       string              `json:"model,omitempty"`
	CodeGenerationActivityCount decimal.NullDecimal `json:"code_generation_activity_count"`
}

func (l LanguageModelTotal) LanguageLabel() string { return LabelOr(l.Language, UnknownLabel) }
func (l LanguageModelTotal) ModelLabel() string    { return LabelOr(l.Model, UnknownLabel) }

func (l LanguageModelTotal) Generations() decimal.Decimal {
	return NumberOr(l.CodeGenerationActivityCount, decimal.Zero)
}

// NumberOr returns d when present, def otherwise.
func NumberOr(d decimal.NullDecimal, def decimal.Decimal) decimal.Decimal {
	if !d.Valid {
		return def
	}
	return d.Decimal
}

// LabelOr returns s when non-empty, def otherwise.
func LabelOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// FirstNonZero returns the first value that is not zero, or zero.
func FirstNonZero(values ...decimal.Decimal) decimal.Decimal {
	for _, v := range values {
		if !v.IsZero() {
			return v
		}
	}
	return decimal.Zero
}

// UserID is an opaque user identifier. Any JSON scalar is accepted and the raw
// token is kept, so 42 and "42" are distinct users. Numbers are kept in
// canonical form, so 42 and 42.0 are the same user. The zero value is the
// missing identifier, which is itself one distinct key.
type UserID struct {
	raw string
}

// NewUserID builds an identifier from a Go scalar the way it would appear in JSON.
func NewUserID(v any) UserID {
	b, err := json.Marshal(v)
	if err != nil {
		return UserID{}
	}
	var id UserID
	_ = id.UnmarshalJSON(b)
	return id
}

func (id *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		id.raw = ""
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		return fmt.Errorf("user_id must be a scalar, got %s", b)
	}
	id.raw = string(b)
	if b[0] == '-' || (b[0] >= '0' && b[0] <= '9') {
		// 1, 1.0 and 1e0 are the same number.
		if d, err := decimal.NewFromString(id.raw); err == nil {
			id.raw = d.String()
		}
	}
	return nil
}

func (id UserID) MarshalJSON() ([]byte, error) {
	if id.raw == "" {
		return []byte("null"), nil
	}
	return []byte(id.raw), nil
}

// IsZero reports whether the identifier was missing.
func (id UserID) IsZero() bool { return id.raw == "" }

// String renders the identifier for display. Strings are unquoted; a missing
// identifier renders empty.
func (id UserID) String() string {
	if len(id.raw) > 0 && id.raw[0] == '"' {
		var s string
		if err := json.Unmarshal([]byte(id.raw), &s); err == nil {
			return s
		}
	}
	return id.raw
}
