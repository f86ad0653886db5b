package debt

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Scenario projects one split of the monthly surplus between debt and savings.
type Scenario struct {
	Name             string
	MonthlyToDebt    decimal.Decimal
	MonthlyToSavings decimal.Decimal
	MonthsToDebtFree float64 // +Inf when nothing goes to debt
	// InterestCost and SavingsProgress are zero when MonthsToDebtFree is infinite.
	InterestCost    decimal.Decimal
	SavingsProgress decimal.Decimal
}

// Finite reports whether the scenario ever clears the debt.
func (s Scenario) Finite() bool {
	return !math.IsInf(s.MonthsToDebtFree, 0)
}

// Scenarios compares paying debt aggressively (80% of surplus), a 50/50
// split, and minimum payments only. The projection is linear: total debt
// divided by the monthly payment, with interest held at this month's level.
func Scenarios(accounts []model.DebtAccount, monthlySurplus decimal.Decimal) []Scenario {
	return []Scenario{
		scenario("aggressive debt payoff (80% to debt)", accounts, monthlySurplus, monthlySurplus.Mul(decimal.RequireFromString("0.8"))),
		scenario("balanced (50% to debt, 50% to savings)", accounts, monthlySurplus, monthlySurplus.Mul(decimal.RequireFromString("0.5"))),
		scenario("minimums only (max savings)", accounts, monthlySurplus, TotalMinimumPayments(accounts)),
	}
}

func scenario(name string, accounts []model.DebtAccount, surplus, toDebt decimal.Decimal) Scenario {
	s := Scenario{
		Name:             name,
		MonthlyToDebt:    toDebt,
		MonthlyToSavings: surplus.Sub(toDebt),
		MonthsToDebtFree: math.Inf(1),
		InterestCost:     decimal.Zero,
		SavingsProgress:  decimal.Zero,
	}
	if !toDebt.IsPositive() {
		return s
	}
	months := TotalDebt(accounts).Div(toDebt)
	s.MonthsToDebtFree = months.InexactFloat64()
	s.InterestCost = TotalMonthlyInterest(accounts).Mul(months)
	s.SavingsProgress = s.MonthlyToSavings.Mul(months)
	return s
}
