package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// IntervalKind is the cadence bucket of a recurring charge.
type IntervalKind int

const (
	IntervalCustom IntervalKind = iota
	IntervalWeekly
	IntervalBiWeekly
	IntervalMonthly
	IntervalQuarterly
	IntervalAnnual
)

// Interval pairs a cadence bucket with the measured mean gap in days.
type Interval struct {
	Kind IntervalKind
	Days float64
}

// String returns the human label, e.g. "monthly" or "every 45 days".
func (i Interval) String() string {
	switch i.Kind {
	case IntervalWeekly:
		return "weekly"
	case IntervalBiWeekly:
		return "bi-weekly"
	case IntervalMonthly:
		return "monthly"
	case IntervalQuarterly:
		return "quarterly"
	case IntervalAnnual:
		return "annual"
	default:
		return fmt.Sprintf("every %.0f days", i.Days)
	}
}

// RecurringCharge is a merchant charged at a consistent interval and amount.
type RecurringCharge struct {
	Merchant       string
	Category       string
	Amount         decimal.Decimal // mean of all occurrences
	AmountMin      decimal.Decimal
	AmountMax      decimal.Decimal
	Count          int
	IntervalDays   float64
	Interval       Interval
	StdDevDays     float64
	AmountVariance float64 // (max-min)/mean
	FirstDate      time.Time
	LastDate       time.Time
	Confidence     float64 // 0-100
	Transactions   []Transaction
}

var thirty = decimal.NewFromInt(30)

// MonthlyCost normalizes the charge to a 30-day month.
func (c RecurringCharge) MonthlyCost() decimal.Decimal {
	return MonthlyEquivalent(c.Amount, c.IntervalDays)
}

// AnnualCost is twelve monthly-equivalent costs.
func (c RecurringCharge) AnnualCost() decimal.Decimal {
	return c.MonthlyCost().Mul(twelve)
}

// MonthlyEquivalent scales amount charged every intervalDays to 30 days.
// A non-positive interval yields zero.
func MonthlyEquivalent(amount decimal.Decimal, intervalDays float64) decimal.Decimal {
	if intervalDays <= 0 {
		return decimal.Zero
	}
	return amount.Mul(thirty).Div(decimal.NewFromFloat(intervalDays))
}

// GapStatus describes why a recurring charge was flagged.
type GapStatus string

const GapStatusPossiblyCancelled GapStatus = "possibly cancelled"

// GapRecord flags a recurring charge that stopped appearing.
type GapRecord struct {
	Merchant         string
	LastOccurrence   time.Time
	DaysSince        int
	ExpectedInterval float64
	Status           GapStatus
	MonthlyImpact    decimal.Decimal
}

// DuplicatePair is two recurring charges that look like the same service.
type DuplicatePair struct {
	Merchant1       string
	Merchant2       string
	Amount1         decimal.Decimal
	Amount2         decimal.Decimal
	CombinedMonthly decimal.Decimal
	Recommendation  string
}
