package aggregation

import (
	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/shopspring/decimal"
)

// Entry is one labelled value of a ranking or breakdown.
type Entry struct {
	Label string          `json:"label" yaml:"label"`
	Value decimal.Decimal `json:"value" yaml:"value"`
}

// Sums accumulates decimal totals per label and remembers the order in which
// labels were first seen. That order is the tie-break for every ranking.
type Sums struct {
	index   map[string]int
	entries []Entry
}

func NewSums() *Sums {
	return &Sums{index: make(map[string]int)}
}

// Add folds v into the total for label. A zero v still registers the label.
func (s *Sums) Add(label string, v decimal.Decimal) {
	if i, ok := s.index[label]; ok {
		s.entries[i].Value = s.entries[i].Value.Add(v)
		return
	}
	s.index[label] = len(s.entries)
	s.entries = append(s.entries, Entry{Label: label, Value: v})
}

// Get returns the total for label, zero when it was never added.
func (s *Sums) Get(label string) decimal.Decimal {
	if i, ok := s.index[label]; ok {
		return s.entries[i].Value
	}
	return decimal.Zero
}

func (s *Sums) Len() int { return len(s.entries) }

// Entries returns a copy of the totals in first-seen order.
func (s *Sums) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Total is the sum of every label's value.
func (s *Sums) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.entries {
		total = total.Add(e.Value)
	}
	return total
}

// Point is one step of a per-day or per-week series.
type Point struct {
	Key   string `json:"key" yaml:"key"`
	Value int    `json:"value" yaml:"value"`
}

// userSets counts distinct user identifiers per key, in first-seen key order.
type userSets struct {
	index map[string]int
	keys  []string
	sets  []map[v1.UserID]struct{}
}

func newUserSets() *userSets {
	return &userSets{index: make(map[string]int)}
}

func (u *userSets) add(key string, id v1.UserID) {
	i, ok := u.index[key]
	if !ok {
		i = len(u.keys)
		u.index[key] = i
		u.keys = append(u.keys, key)
		u.sets = append(u.sets, make(map[v1.UserID]struct{}))
	}
	u.sets[i][id] = struct{}{}
}

func (u *userSets) points() []Point {
	out := make([]Point, len(u.keys))
	for i, k := range u.keys {
		out[i] = Point{Key: k, Value: len(u.sets[i])}
	}
	return out
}
