package budget

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/spending"
)

// PayoffAdvice grades how much room the budget leaves for paying down debt.
type PayoffAdvice int

const (
	AdviceMinimal PayoffAdvice = iota
	AdviceModerate
	AdviceAggressive
)

var (
	aggressiveThreshold = decimal.NewFromInt(500)
	moderateThreshold   = decimal.NewFromInt(250)
)

func (a PayoffAdvice) String() string {
	switch a {
	case AdviceAggressive:
		return "aggressive debt payoff possible"
	case AdviceModerate:
		return "moderate debt payoff"
	default:
		return "minimal, cut spending first"
	}
}

// PayoffBudget is what income leaves for debt after average spending.
type PayoffBudget struct {
	MonthlyIncome    decimal.Decimal
	MonthlySpending  decimal.Decimal
	AvailableForDebt decimal.Decimal // negative when spending exceeds income
	Advice           PayoffAdvice
}

// RecommendPayoffBudget compares income with average monthly spending.
// More than 500 left over is aggressive, more than 250 moderate.
func RecommendPayoffBudget(a *spending.Analyzer, monthlyIncome decimal.Decimal) PayoffBudget {
	spend := a.AverageMonthly()
	available := monthlyIncome.Sub(spend)

	advice := AdviceMinimal
	switch {
	case available.GreaterThan(aggressiveThreshold):
		advice = AdviceAggressive
	case available.GreaterThan(moderateThreshold):
		advice = AdviceModerate
	}
	return PayoffBudget{
		MonthlyIncome:    monthlyIncome,
		MonthlySpending:  spend,
		AvailableForDebt: available,
		Advice:           advice,
	}
}

// SpendingCut is a proposed reduction in one discretionary category.
type SpendingCut struct {
	Category        string
	CurrentMonthly  decimal.Decimal
	PotentialCut    decimal.Decimal
	RemainingBudget decimal.Decimal
}

// CutPlan is the set of cuts and what they could put toward debt.
type CutPlan struct {
	Cuts           []SpendingCut
	MonthlySavings decimal.Decimal
	AnnualPayoff   decimal.Decimal
}

// SpendingCuts proposes cutting share of the average monthly spend in each
// listed category that has spending. Cuts are ordered largest first, ties by
// category name.
func SpendingCuts(a *spending.Analyzer, categories []string, share decimal.Decimal) CutPlan {
	months := decimal.NewFromInt(int64(max(a.MonthCount(), 1)))
	share = decimal.Min(decimal.Max(share, decimal.Zero), decimal.NewFromInt(1))

	totals := make(map[string]decimal.Decimal)
	for _, c := range a.ByCategory() {
		totals[c.Category] = c.Total
	}

	plan := CutPlan{MonthlySavings: decimal.Zero}
	for _, cat := range categories {
		total, ok := totals[cat]
		if !ok {
			continue
		}
		monthly := total.Div(months)
		cut := monthly.Mul(share)
		plan.Cuts = append(plan.Cuts, SpendingCut{
			Category:        cat,
			CurrentMonthly:  monthly,
			PotentialCut:    cut,
			RemainingBudget: monthly.Sub(cut),
		})
		plan.MonthlySavings = plan.MonthlySavings.Add(cut)
	}
	slices.SortFunc(plan.Cuts, func(x, y SpendingCut) int {
		return cmp.Or(y.PotentialCut.Cmp(x.PotentialCut), cmp.Compare(x.Category, y.Category))
	})
	plan.AnnualPayoff = plan.MonthlySavings.Mul(decimal.NewFromInt(12))
	return plan
}
