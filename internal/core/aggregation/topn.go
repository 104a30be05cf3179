package aggregation

import "slices"

// TopK returns the first k items after a stable sort by cmp, so ties keep
// their input order. k <= 0 keeps every item. items is not modified.
func TopK[T any](items []T, cmp func(a, b T) int, k int) []T {
	sorted := append(make([]T, 0, len(items)), items...)
	slices.SortStableFunc(sorted, cmp)
	if k > 0 && len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted
}

// ByValueDesc orders entries by descending value.
func ByValueDesc(a, b Entry) int {
	return b.Value.Cmp(a.Value)
}

// TopN ranks entries by descending value. Ties keep first-seen order.
func TopN(entries []Entry, n int) []Entry {
	return TopK(entries, ByValueDesc, n)
}

// topLabel is the label of the highest entry, or "" when there is none.
func topLabel(s *Sums) string {
	top := TopN(s.Entries(), 1)
	if len(top) == 0 {
		return ""
	}
	return top[0].Label
}
