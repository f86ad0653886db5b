package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Strategy selects the order in which surplus payments target debts.
type Strategy int

const (
	// Avalanche targets the highest interest rate first.
	Avalanche Strategy = iota + 1
	// Snowball targets the smallest balance first.
	Snowball
)

func (s Strategy) String() string {
	switch s {
	case Avalanche:
		return "avalanche"
	case Snowball:
		return "snowball"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// ParseStrategy accepts "avalanche" or "snowball", case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "avalanche":
		return Avalanche, nil
	case "snowball":
		return Snowball, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q (want avalanche or snowball)", s)
	}
}

// PayoffPlanEntry is one account's assignment within a plan.
type PayoffPlanEntry struct {
	Account        DebtAccount
	Payment        decimal.Decimal
	MonthsToPayoff float64 // +Inf when the payment never amortizes the balance
	Priority       int     // 1 = receives the surplus
}

// Finite reports whether the account is ever paid off.
func (e PayoffPlanEntry) Finite() bool {
	return !math.IsInf(e.MonthsToPayoff, 0)
}

// PayoffPlan is the result of one strategy run.
type PayoffPlan struct {
	Strategy         Strategy
	MonthlyBudget    decimal.Decimal
	Entries          []PayoffPlanEntry
	MonthsToDebtFree float64
	TotalInterest    decimal.Decimal
}

// IsEmpty reports whether the plan has no entries.
func (p PayoffPlan) IsEmpty() bool {
	return len(p.Entries) == 0
}

// Finite reports whether every account in the plan is eventually paid off.
func (p PayoffPlan) Finite() bool {
	return !math.IsInf(p.MonthsToDebtFree, 0)
}

// YearsToDebtFree converts MonthsToDebtFree to years.
func (p PayoffPlan) YearsToDebtFree() float64 {
	return p.MonthsToDebtFree / 12
}
