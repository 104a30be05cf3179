package view

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/samber/lo"
)

// RangeAll selects the full span of days.
const RangeAll = "all"

var ErrInvalidRange = errors.New("invalid quick range")

// DayBounds returns the distinct non-empty days of records, ascending.
func DayBounds(records []v1.UsageRecord) []string {
	days := lo.Uniq(lo.Compact(lo.Map(records, func(r v1.UsageRecord, _ int) string {
		return r.Day
	})))
	sort.Strings(days)
	return days
}

// Span returns the first and last day, empty strings when there are none.
func Span(days []string) (from, to string) {
	if len(days) == 0 {
		return "", ""
	}
	return days[0], days[len(days)-1]
}

// QuickRange resolves a named range against the known days. "all" spans every
// day; a positive integer N spans the last N calendar days ending at the
// latest day, clamped to the earliest day.
func QuickRange(days []string, rng string) (from, to string, err error) {
	if len(days) == 0 {
		return "", "", fmt.Errorf("%w: no days loaded", ErrInvalidRange)
	}
	first, last := Span(days)
	if rng == RangeAll {
		return first, last, nil
	}

	n, err := strconv.Atoi(rng)
	if err != nil || n <= 0 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRange, rng)
	}

	latest, err := time.Parse(dayLayout, last)
	if err != nil {
		return "", "", fmt.Errorf("%w: latest day %q is not a date", ErrInvalidRange, last)
	}
	from = latest.AddDate(0, 0, -(n - 1)).Format(dayLayout)
	if from < first {
		from = first
	}
	return from, last, nil
}
