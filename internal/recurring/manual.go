package recurring

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Manual is a subscription tracked by hand. Manual entries override a
// detected charge for the same merchant.
type Manual struct {
	Name         string
	Merchant     string
	Category     string
	Amount       decimal.Decimal
	IntervalDays int
	StartDate    time.Time
	EndDate      time.Time // zero while active
	Notes        string
	Cancelled    bool
}

// Interval classifies the configured cadence.
func (m Manual) Interval() model.Interval {
	return ClassifyInterval(float64(m.IntervalDays))
}

// MonthlyCost normalizes the subscription to a 30-day month.
func (m Manual) MonthlyCost() decimal.Decimal {
	return model.MonthlyEquivalent(m.Amount, float64(m.IntervalDays))
}

// Source says where a combined subscription came from.
type Source string

const (
	SourceDetected Source = "detected"
	SourceManual   Source = "manual"
)

// Subscription is one entry of the combined detected and manual list.
type Subscription struct {
	Name       string
	Merchant   string
	Category   string
	Amount     decimal.Decimal
	Interval   model.Interval
	Monthly    decimal.Decimal
	Confidence float64 // detected only
	Notes      string
	Source     Source
}

// ActiveManual returns the manual subscriptions that are not cancelled.
func ActiveManual(manual []Manual) []Manual {
	var out []Manual
	for _, m := range manual {
		if !m.Cancelled {
			out = append(out, m)
		}
	}
	return out
}

// CancelledManual returns the cancelled manual subscriptions.
func CancelledManual(manual []Manual) []Manual {
	var out []Manual
	for _, m := range manual {
		if m.Cancelled {
			out = append(out, m)
		}
	}
	return out
}

// Combine merges active manual subscriptions with detected charges. Active
// manual entries come first, largest monthly cost first, followed by the
// detected charges whose merchant no manual entry covers, in detection order.
// Merchants match case-insensitively.
func Combine(detected []model.RecurringCharge, manual []Manual) []Subscription {
	active := ActiveManual(manual)
	covered := make(map[string]bool, len(active))

	out := make([]Subscription, 0, len(active)+len(detected))
	for _, m := range active {
		covered[strings.ToLower(m.Merchant)] = true
		out = append(out, Subscription{
			Name:     m.Name,
			Merchant: m.Merchant,
			Category: m.Category,
			Amount:   m.Amount,
			Interval: m.Interval(),
			Monthly:  m.MonthlyCost(),
			Notes:    m.Notes,
			Source:   SourceManual,
		})
	}
	slices.SortStableFunc(out, func(a, b Subscription) int {
		return b.Monthly.Cmp(a.Monthly)
	})

	for _, c := range detected {
		if covered[strings.ToLower(c.Merchant)] {
			continue
		}
		out = append(out, Subscription{
			Name:       c.Merchant,
			Merchant:   c.Merchant,
			Category:   c.Category,
			Amount:     c.Amount,
			Interval:   c.Interval,
			Monthly:    c.MonthlyCost(),
			Confidence: c.Confidence,
			Source:     SourceDetected,
		})
	}
	return out
}

// CombinedMonthlyTotal is the monthly cost of Combine(detected, manual).
func CombinedMonthlyTotal(detected []model.RecurringCharge, manual []Manual) decimal.Decimal {
	total := decimal.Zero
	for _, s := range Combine(detected, manual) {
		total = total.Add(s.Monthly)
	}
	return total
}
