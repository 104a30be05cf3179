package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/samber/lo"
)

const dayLayout = "2006-01-02"

var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Criteria selects the subset of a dataset the dashboard is built from.
// The zero value selects everything.
type Criteria struct {
	// Search is a case-insensitive substring of user_login.
	Search string `json:"search" yaml:"search"`

	// From and To are inclusive YYYY-MM-DD bounds; empty means unbounded.
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`

	MembersOnly bool `json:"members_only" yaml:"members_only"`
}

// Normalize trims and lower-cases the search term and checks the day bounds.
func (c Criteria) Normalize() (Criteria, error) {
	c.Search = strings.ToLower(strings.TrimSpace(c.Search))
	c.From = strings.TrimSpace(c.From)
	c.To = strings.TrimSpace(c.To)
	for _, d := range []string{c.From, c.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dayLayout, d); err != nil {
			return Criteria{}, fmt.Errorf("%w: day %q is not YYYY-MM-DD", ErrInvalidCriteria, d)
		}
	}
	return c, nil
}

// Predicate decides whether a record stays in the view.
type Predicate func(r v1.UsageRecord) bool

// Predicates returns the active predicates for c. Inactive criteria add none.
func (c Criteria) Predicates(members MembersSet) []Predicate {
	var preds []Predicate
	if c.Search != "" {
		preds = append(preds, SearchPredicate(c.Search))
	}
	if c.From != "" {
		preds = append(preds, FromPredicate(c.From))
	}
	if c.To != "" {
		preds = append(preds, ToPredicate(c.To))
	}
	if c.MembersOnly && members.Len() > 0 {
		preds = append(preds, MembersPredicate(members))
	}
	return preds
}

// SearchPredicate keeps records whose login contains q, ignoring case.
// A record without a login never matches a non-empty query.
func SearchPredicate(q string) Predicate {
	q = strings.ToLower(q)
	return func(r v1.UsageRecord) bool {
		return strings.Contains(strings.ToLower(r.UserLogin), q)
	}
}

// FromPredicate keeps records on or after from. Records without a day pass.
func FromPredicate(from string) Predicate {
	return func(r v1.UsageRecord) bool {
		return r.Day == "" || r.Day >= from
	}
}

// ToPredicate keeps records on or before to. Records without a day pass.
func ToPredicate(to string) Predicate {
	return func(r v1.UsageRecord) bool {
		return r.Day == "" || r.Day <= to
	}
}

// MembersPredicate keeps records whose login is in members.
func MembersPredicate(members MembersSet) Predicate {
	return func(r v1.UsageRecord) bool {
		return members.Has(r.UserLogin)
	}
}

// Apply returns the records matching every active criterion, in input order.
// The input slice is not modified.
func Apply(records []v1.UsageRecord, c Criteria, members MembersSet) []v1.UsageRecord {
	preds := c.Predicates(members)
	return lo.Filter(records, func(r v1.UsageRecord, _ int) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	})
}
