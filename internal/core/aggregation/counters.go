package aggregation

import (
	"sort"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/shopspring/decimal"
)

// Named top-level counters of a usage record.
const (
	CounterInteractions = "interactions"
	CounterCompletions  = "completions"
	CounterAcceptances  = "acceptances"
)

// Counter reads one numeric value from a record.
type Counter func(r v1.UsageRecord) decimal.Decimal

// Counters is the registry of rankable record counters.
// To add a counter: add an entry here. Handlers and the CLI resolve names through it.
var Counters = map[string]Counter{
	CounterInteractions: v1.UsageRecord.Interactions,
	CounterCompletions:  v1.UsageRecord.Completions,
	CounterAcceptances:  v1.UsageRecord.Acceptances,
}

// CounterNames returns the registered counter names in lexical order.
func CounterNames() []string {
	names := make([]string, 0, len(Counters))
	for name := range Counters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
