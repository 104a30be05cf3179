package usertable

import (
	"errors"
	"fmt"
	"slices"

	"github.com/abhi-singhs/copilot-metrics-analysis/internal/core/aggregation"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Column identifies a sortable column of the user table.
type Column string

const (
	ColumnLogin          Column = "user_login"
	ColumnInteractions   Column = "interactions"
	ColumnCompletions    Column = "completions"
	ColumnAcceptances    Column = "acceptances"
	ColumnAcceptanceRate Column = "acceptance_rate"
	ColumnDaysActive     Column = "days_active_count"
	ColumnTopModel       Column = "top_model"
	ColumnTopLanguage    Column = "top_language"
	ColumnTopFeature     Column = "top_feature"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var ErrUnknownColumn = errors.New("unknown user table column")

// ColumnInfo pairs a column with its header label.
type ColumnInfo struct {
	Key   Column `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
}

// Columns lists the table columns in display order.
var Columns = []ColumnInfo{
	{Key: ColumnLogin, Label: "User"},
	{Key: ColumnInteractions, Label: "Interactions"},
	{Key: ColumnCompletions, Label: "Completions"},
	{Key: ColumnAcceptances, Label: "Acceptances"},
	{Key: ColumnAcceptanceRate, Label: "Acceptance %"},
	{Key: ColumnDaysActive, Label: "Days Active"},
	{Key: ColumnTopModel, Label: "Top Model"},
	{Key: ColumnTopLanguage, Label: "Top Language"},
	{Key: ColumnTopFeature, Label: "Top Feature"},
}

// ParseColumn validates a column key.
func ParseColumn(s string) (Column, error) {
	for _, c := range Columns {
		if string(c.Key) == s {
			return c.Key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownColumn, s)
}

// SortState is the current sort column and direction.
type SortState struct {
	Column    Column    `json:"column" yaml:"column"`
	Direction Direction `json:"direction" yaml:"direction"`
}

// Row is one rendered table row. AcceptanceRate is rounded to one decimal
// and TopFeature carries the display name.
type Row struct {
	Login          string          `json:"user_login" yaml:"user_login"`
	UserID         string          `json:"user_id" yaml:"user_id"`
	Interactions   decimal.Decimal `json:"interactions" yaml:"interactions"`
	Completions    decimal.Decimal `json:"completions" yaml:"completions"`
	Acceptances    decimal.Decimal `json:"acceptances" yaml:"acceptances"`
	AcceptanceRate string          `json:"acceptance_rate" yaml:"acceptance_rate"`
	DaysActive     int             `json:"days_active" yaml:"days_active"`
	TopModel       string          `json:"top_model" yaml:"top_model"`
	TopLanguage    string          `json:"top_language" yaml:"top_language"`
	TopFeature     string          `json:"top_feature" yaml:"top_feature"`
}

// Table keeps the per-user rollup of the current view in the selected sort
// order. The sort state survives Refresh. Not safe for concurrent use.
type Table struct {
	catalog  aggregation.FeatureCatalog
	collator *collate.Collator
	rollups  []aggregation.UserRollup
	sorted   []aggregation.UserRollup
	state    SortState
}

// New returns an empty table sorted ascending by login.
func New(catalog aggregation.FeatureCatalog) *Table {
	return &Table{
		catalog:  catalog,
		collator: collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics, collate.IgnoreWidth),
		state:    SortState{Column: ColumnLogin, Direction: Asc},
	}
}

// Refresh replaces the rollups and re-applies the current sort.
func (t *Table) Refresh(rollups []aggregation.UserRollup) {
	t.rollups = rollups
	t.resort()
}

// SortBy selects col. Selecting the current column flips the direction;
// any other column sorts ascending.
func (t *Table) SortBy(col Column) error {
	if _, err := ParseColumn(string(col)); err != nil {
		return err
	}
	if t.state.Column == col {
		if t.state.Direction == Asc {
			t.state.Direction = Desc
		} else {
			t.state.Direction = Asc
		}
	} else {
		t.state = SortState{Column: col, Direction: Asc}
	}
	t.resort()
	return nil
}

func (t *Table) Sort() SortState { return t.state }

func (t *Table) Len() int { return len(t.sorted) }

// Rows renders the sorted rollups for display.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.sorted))
	for i, u := range t.sorted {
		rows[i] = Row{
			Login:          u.Login,
			UserID:         u.UserID.String(),
			Interactions:   u.Interactions,
			Completions:    u.Completions,
			Acceptances:    u.Acceptances,
			AcceptanceRate: aggregation.OneDecimal(u.AcceptanceRate),
			DaysActive:     u.DaysActive(),
			TopModel:       u.TopModel,
			TopLanguage:    u.TopLanguage,
			TopFeature:     t.catalog.DisplayName(u.TopFeature),
		}
	}
	return rows
}

// resort always starts from rollup order so ties resolve the same way no
// matter how many times the table was sorted before.
func (t *Table) resort() {
	sorted := slices.Clone(t.rollups)
	col := t.state.Column
	sign := 1
	if t.state.Direction == Desc {
		sign = -1
	}
	slices.SortStableFunc(sorted, func(a, b aggregation.UserRollup) int {
		return sign * t.compare(col, a, b)
	})
	t.sorted = sorted
}

func (t *Table) compare(col Column, a, b aggregation.UserRollup) int {
	switch col {
	case ColumnInteractions:
		return a.Interactions.Cmp(b.Interactions)
	case ColumnCompletions:
		return a.Completions.Cmp(b.Completions)
	case ColumnAcceptances:
		return a.Acceptances.Cmp(b.Acceptances)
	case ColumnAcceptanceRate:
		return a.AcceptanceRate.Cmp(b.AcceptanceRate)
	case ColumnDaysActive:
		return a.DaysActive() - b.DaysActive()
	case ColumnTopModel:
		return t.collator.CompareString(a.TopModel, b.TopModel)
	case ColumnTopLanguage:
		return t.collator.CompareString(a.TopLanguage, b.TopLanguage)
	case ColumnTopFeature:
		return t.collator.CompareString(t.catalog.DisplayName(a.TopFeature), t.catalog.DisplayName(b.TopFeature))
	default:
		return t.collator.CompareString(a.Login, b.Login)
	}
}
