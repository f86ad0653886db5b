// Package budget compares spending to targets and plans the month's cash.
package budget

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/spending"
)

// CategoryStatus compares one category's average monthly spend to its target.
type CategoryStatus struct {
	Category   string
	AvgMonthly decimal.Decimal
	Target     decimal.Decimal
	Difference decimal.Decimal // target - average; negative when over
	HasTarget  bool
}

// Over reports whether average spending exceeds the target.
func (s CategoryStatus) Over() bool {
	return s.AvgMonthly.GreaterThan(s.Target)
}

// VsTargets compares each spending category to its configured target.
// Categories without a target use their own average, so they are never over.
// Order follows spending.Analyzer.ByCategory.
func VsTargets(a *spending.Analyzer, targets map[string]decimal.Decimal) []CategoryStatus {
	months := decimal.NewFromInt(int64(max(a.MonthCount(), 1)))

	var out []CategoryStatus
	for _, c := range a.ByCategory() {
		avg := c.Total.Div(months)
		target, ok := targets[c.Category]
		if !ok {
			target = avg
		}
		out = append(out, CategoryStatus{
			Category:   c.Category,
			AvgMonthly: avg,
			Target:     target,
			Difference: target.Sub(avg),
			HasTarget:  ok,
		})
	}
	return out
}
