package aggregation

import (
	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/shopspring/decimal"
)

// UserRollup is the per-login summary behind the user table.
type UserRollup struct {
	Login        string          `json:"user_login"`
	UserID       v1.UserID       `json:"user_id"`
	Interactions decimal.Decimal `json:"interactions"`
	Completions  decimal.Decimal `json:"completions"`
	Acceptances  decimal.Decimal `json:"acceptances"`

	// AcceptanceRate is unrounded; rounding happens at presentation.
	AcceptanceRate decimal.Decimal `json:"acceptance_rate"`

	ActiveDays  []string `json:"active_days"`
	TopModel    string   `json:"top_model"`
	TopLanguage string   `json:"top_language"`
	TopFeature  string   `json:"top_feature"`
}

// DaysActive is the number of distinct days the user was seen on.
func (u UserRollup) DaysActive() int { return len(u.ActiveDays) }

type rollupState struct {
	row       UserRollup
	days      map[string]struct{}
	models    *Sums
	languages *Sums
	features  *Sums
}

// UserRollups groups records by login in first-seen order. The user id is
// taken from the first record of each login.
func UserRollups(records []v1.UsageRecord) []UserRollup {
	index := make(map[string]int)
	var states []*rollupState

	for _, r := range records {
		login := r.Login()
		i, ok := index[login]
		if !ok {
			i = len(states)
			index[login] = i
			states = append(states, &rollupState{
				row: UserRollup{
					Login:        login,
					UserID:       r.UserID,
					Interactions: decimal.Zero,
					Completions:  decimal.Zero,
					Acceptances:  decimal.Zero,
					ActiveDays:   []string{},
				},
				days:      make(map[string]struct{}),
				models:    NewSums(),
				languages: NewSums(),
				features:  NewSums(),
			})
		}
		st := states[i]

		st.row.Interactions = st.row.Interactions.Add(r.Interactions())
		st.row.Completions = st.row.Completions.Add(r.Completions())
		st.row.Acceptances = st.row.Acceptances.Add(r.Acceptances())
		if r.Day != "" {
			if _, seen := st.days[r.Day]; !seen {
				st.days[r.Day] = struct{}{}
				st.row.ActiveDays = append(st.row.ActiveDays, r.Day)
			}
		}
		ModelInteractions(r, st.models.Add)
		LanguageInteractions(r, st.languages.Add)
		FeatureInteractions(r, st.features.Add)
	}

	out := make([]UserRollup, len(states))
	for i, st := range states {
		row := st.row
		row.AcceptanceRate = Rate(row.Acceptances, row.Completions)
		row.TopModel = topLabel(st.models)
		row.TopLanguage = topLabel(st.languages)
		row.TopFeature = topLabel(st.features)
		out[i] = row
	}
	return out
}
