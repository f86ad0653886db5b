package budget

import (
	"github.com/shopspring/decimal"
)

// AllocationInput is what the month's income has to cover.
type AllocationInput struct {
	MonthlyIncome        decimal.Decimal
	RecurringMonthly     decimal.Decimal // detected recurring charges, monthly equivalent
	SinkingContributions decimal.Decimal
	MinimumDebtPayments  decimal.Decimal
	ExtraDebtShare       decimal.Decimal // fraction of the remainder sent to debt
	HistoricalAverage    decimal.Decimal // average monthly spending to date
}

// Allocation splits monthly income in pay-yourself-first order.
type Allocation struct {
	Income           decimal.Decimal
	Essentials       decimal.Decimal
	Savings          decimal.Decimal
	MinimumDebt      decimal.Decimal
	ExtraDebt        decimal.Decimal
	Discretionary    decimal.Decimal
	ProjectedSurplus decimal.Decimal // discretionary budget minus historical average spending
}

// Remainder is income left after essentials, savings and minimum payments.
func (a Allocation) Remainder() decimal.Decimal {
	return a.Income.Sub(a.Essentials).Sub(a.Savings).Sub(a.MinimumDebt)
}

// Outflows is everything the plan spends. A negative discretionary budget
// is a shortfall, not a source of money.
func (a Allocation) Outflows() decimal.Decimal {
	out := a.Essentials.Add(a.Savings).Add(a.MinimumDebt).Add(a.ExtraDebt)
	if a.Discretionary.IsPositive() {
		out = out.Add(a.Discretionary)
	}
	return out
}

// PlanAllocation builds the month's allocation. Extra debt payments are
// only made from a positive remainder; a shortfall lands in Discretionary.
func PlanAllocation(in AllocationInput) Allocation {
	a := Allocation{
		Income:      in.MonthlyIncome,
		Essentials:  in.RecurringMonthly,
		Savings:     in.SinkingContributions,
		MinimumDebt: in.MinimumDebtPayments,
		ExtraDebt:   decimal.Zero,
	}

	remainder := a.Remainder()
	if remainder.IsPositive() {
		share := decimal.Min(decimal.Max(in.ExtraDebtShare, decimal.Zero), decimal.NewFromInt(1))
		a.ExtraDebt = remainder.Mul(share).Round(2)
	}
	a.Discretionary = remainder.Sub(a.ExtraDebt)
	a.ProjectedSurplus = a.Discretionary.Sub(in.HistoricalAverage)
	return a
}
