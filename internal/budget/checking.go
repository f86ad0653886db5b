package budget

import (
	"github.com/shopspring/decimal"
)

// BufferStatus grades the projected end-of-month checking balance.
type BufferStatus int

const (
	Healthy BufferStatus = iota
	LowBuffer
	OverdraftRisk
)

func (s BufferStatus) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case LowBuffer:
		return "low buffer"
	case OverdraftRisk:
		return "overdraft risk"
	default:
		return "unknown"
	}
}

// CheckingProjection forecasts the checking account through one month.
type CheckingProjection struct {
	StartBalance decimal.Decimal
	Income       decimal.Decimal
	Outflows     decimal.Decimal
	EndBalance   decimal.Decimal
	Buffer       decimal.Decimal
	Status       BufferStatus
}

// ProjectChecking applies a month of plan to the starting balance.
// Below zero is an overdraft risk; below buffer is a low buffer.
func ProjectChecking(balance, buffer decimal.Decimal, plan Allocation) CheckingProjection {
	p := CheckingProjection{
		StartBalance: balance,
		Income:       plan.Income,
		Outflows:     plan.Outflows(),
		Buffer:       buffer,
	}
	p.EndBalance = balance.Add(p.Income).Sub(p.Outflows)

	switch {
	case p.EndBalance.IsNegative():
		p.Status = OverdraftRisk
	case p.EndBalance.LessThan(buffer):
		p.Status = LowBuffer
	default:
		p.Status = Healthy
	}
	return p
}
