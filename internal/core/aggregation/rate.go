package aggregation

import (
	v1 "github.com/abhi-singhs/copilot-metrics-analysis/internal/api/v1"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Rate returns part/whole as a percentage, zero when whole is zero.
func Rate(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

// OneDecimal renders d rounded half away from zero to one decimal place.
func OneDecimal(d decimal.Decimal) string {
	return d.StringFixed(1)
}

// FormatRate renders part/whole as a one-decimal percentage string.
func FormatRate(part, whole decimal.Decimal) string {
	return OneDecimal(Rate(part, whole))
}

// Average renders total/count to one decimal place, "0.0" when count is zero.
func Average(total decimal.Decimal, count int) string {
	if count == 0 {
		return OneDecimal(decimal.Zero)
	}
	return OneDecimal(total.Div(decimal.NewFromInt(int64(count))))
}

// AcceptanceRateByUser ranks users by acceptances/completions. Sorting uses
// the exact rate; the returned values are rounded to one decimal.
func AcceptanceRateByUser(records []v1.UsageRecord, n int) []Entry {
	completions := NewSums()
	acceptances := NewSums()
	for _, r := range records {
		completions.Add(r.Login(), r.Completions())
		acceptances.Add(r.Login(), r.Acceptances())
	}

	rates := completions.Entries()
	for i := range rates {
		rates[i].Value = Rate(acceptances.Get(rates[i].Label), rates[i].Value)
	}

	top := TopN(rates, n)
	for i := range top {
		top[i].Value = top[i].Value.Round(1)
	}
	return top
}
