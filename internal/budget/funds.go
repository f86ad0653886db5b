package budget

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/config"
)

// FundStatus is the progress of one sinking fund toward its goal.
type FundStatus struct {
	Fund            config.SinkingFund
	PercentComplete float64
	Remaining       decimal.Decimal
	MonthsToGoal    float64 // +Inf when nothing is contributed and the goal is unmet
}

// Reachable reports whether the goal is met or will be at the current contribution.
func (s FundStatus) Reachable() bool {
	return !math.IsInf(s.MonthsToGoal, 1)
}

// YearsToGoal converts MonthsToGoal to years.
func (s FundStatus) YearsToGoal() float64 {
	return s.MonthsToGoal / 12
}

// Fund computes the status of a single sinking fund. A zero goal counts
// as complete.
func Fund(f config.SinkingFund) FundStatus {
	st := FundStatus{Fund: f, Remaining: decimal.Max(f.Goal.Sub(f.Balance), decimal.Zero)}

	if f.Goal.IsZero() {
		st.PercentComplete = 100
	} else {
		st.PercentComplete = f.Balance.Div(f.Goal).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	switch {
	case st.Remaining.IsZero():
		st.MonthsToGoal = 0
	case !f.MonthlyContribution.IsPositive():
		st.MonthsToGoal = math.Inf(1)
	default:
		st.MonthsToGoal = st.Remaining.Div(f.MonthlyContribution).InexactFloat64()
	}
	return st
}

// Funds computes the status of each sinking fund, in input order.
func Funds(funds []config.SinkingFund) []FundStatus {
	out := make([]FundStatus, 0, len(funds))
	for _, f := range funds {
		out = append(out, Fund(f))
	}
	return out
}

// TotalContribution sums the monthly contributions across funds.
func TotalContribution(funds []config.SinkingFund) decimal.Decimal {
	total := decimal.Zero
	for _, f := range funds {
		total = total.Add(f.MonthlyContribution)
	}
	return total
}

// TotalSaved sums the current balances across funds.
func TotalSaved(funds []config.SinkingFund) decimal.Decimal {
	total := decimal.Zero
	for _, f := range funds {
		total = total.Add(f.Balance)
	}
	return total
}
