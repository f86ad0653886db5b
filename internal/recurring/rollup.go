package recurring

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// CategoryCost is the monthly-equivalent recurring spend in one category.
type CategoryCost struct {
	Category string
	Monthly  decimal.Decimal
}

// MonthlyTotal sums the monthly-equivalent cost of charges.
func MonthlyTotal(charges []model.RecurringCharge) decimal.Decimal {
	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(c.MonthlyCost())
	}
	return total
}

// AnnualTotal is twelve times MonthlyTotal.
func AnnualTotal(charges []model.RecurringCharge) decimal.Decimal {
	return MonthlyTotal(charges).Mul(decimal.NewFromInt(12))
}

// MonthlyByCategory groups monthly-equivalent costs by category, largest first.
func MonthlyByCategory(charges []model.RecurringCharge) []CategoryCost {
	idx := make(map[string]int)
	var out []CategoryCost
	for _, c := range charges {
		i, ok := idx[c.Category]
		if !ok {
			i = len(out)
			idx[c.Category] = i
			out = append(out, CategoryCost{Category: c.Category, Monthly: decimal.Zero})
		}
		out[i].Monthly = out[i].Monthly.Add(c.MonthlyCost())
	}
	slices.SortStableFunc(out, func(a, b CategoryCost) int {
		return b.Monthly.Cmp(a.Monthly)
	})
	return out
}
