// Package spending aggregates expense transactions and flags unusual ones.
package spending

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

const monthFormat = "2006-01"

// CategoryTotal is spending summed over one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// MonthTotal is spending summed over one calendar month ("YYYY-MM").
type MonthTotal struct {
	Month string
	Total decimal.Decimal
}

// MonthCategories breaks one month's spending down by category.
type MonthCategories struct {
	Month      string
	Categories []CategoryTotal
}

// MerchantTotal is spending summed over one merchant.
type MerchantTotal struct {
	Merchant string
	Total    decimal.Decimal
	Count    int
}

// Analyzer answers aggregate questions over a fixed transaction set.
// Only positive amounts count as spending.
type Analyzer struct {
	all      []model.Transaction
	expenses []model.Transaction
}

// NewAnalyzer builds an Analyzer over txns.
func NewAnalyzer(txns []model.Transaction) *Analyzer {
	return &Analyzer{all: txns, expenses: expenses(txns)}
}

// Expenses returns the spending subset the analyzer works on.
func (a *Analyzer) Expenses() []model.Transaction {
	return a.expenses
}

// Total returns all spending.
func (a *Analyzer) Total() decimal.Decimal {
	total := decimal.Zero
	for _, t := range a.expenses {
		total = total.Add(t.Amount)
	}
	return total
}

// ByCategory returns spending per category, largest first.
func (a *Analyzer) ByCategory() []CategoryTotal {
	return sumCategories(a.expenses)
}

// ByMonth returns spending per month in chronological order.
func (a *Analyzer) ByMonth() []MonthTotal {
	sums := make(map[string]decimal.Decimal)
	for _, t := range a.expenses {
		k := t.Date.Format(monthFormat)
		sums[k] = sums[k].Add(t.Amount)
	}

	out := make([]MonthTotal, 0, len(sums))
	for m, total := range sums {
		out = append(out, MonthTotal{Month: m, Total: total})
	}
	slices.SortFunc(out, func(x, y MonthTotal) int { return cmp.Compare(x.Month, y.Month) })
	return out
}

// CategoryByMonth returns the per-category breakdown of each month,
// months in chronological order.
func (a *Analyzer) CategoryByMonth() []MonthCategories {
	byMonth := make(map[string][]model.Transaction)
	for _, t := range a.expenses {
		k := t.Date.Format(monthFormat)
		byMonth[k] = append(byMonth[k], t)
	}

	out := make([]MonthCategories, 0, len(byMonth))
	for m, txns := range byMonth {
		out = append(out, MonthCategories{Month: m, Categories: sumCategories(txns)})
	}
	slices.SortFunc(out, func(x, y MonthCategories) int { return cmp.Compare(x.Month, y.Month) })
	return out
}

// MonthCount returns the number of distinct months with spending.
func (a *Analyzer) MonthCount() int {
	return len(a.ByMonth())
}

// AverageMonthly returns total spending divided by the number of months
// that have any. Zero with no spending.
func (a *Analyzer) AverageMonthly() decimal.Decimal {
	n := a.MonthCount()
	if n == 0 {
		return decimal.Zero
	}
	return a.Total().Div(decimal.NewFromInt(int64(n)))
}

// TopMerchants returns the limit merchants with the highest spending.
// A non-positive limit returns all of them.
func (a *Analyzer) TopMerchants(limit int) []MerchantTotal {
	idx := make(map[string]int)
	var out []MerchantTotal
	for _, t := range a.expenses {
		i, ok := idx[t.Merchant]
		if !ok {
			i = len(out)
			idx[t.Merchant] = i
			out = append(out, MerchantTotal{Merchant: t.Merchant, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(t.Amount)
		out[i].Count++
	}

	slices.SortStableFunc(out, func(x, y MerchantTotal) int {
		return cmp.Or(y.Total.Cmp(x.Total), cmp.Compare(x.Merchant, y.Merchant))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DateRange returns the earliest and latest transaction dates across all
// transactions, income included. ok is false for an empty set.
func (a *Analyzer) DateRange() (first, last time.Time, ok bool) {
	if len(a.all) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = a.all[0].Date, a.all[0].Date
	for _, t := range a.all[1:] {
		if t.Date.Before(first) {
			first = t.Date
		}
		if t.Date.After(last) {
			last = t.Date
		}
	}
	return first, last, true
}

func sumCategories(txns []model.Transaction) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, t := range txns {
		sums[t.Category] = sums[t.Category].Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for c, total := range sums {
		out = append(out, CategoryTotal{Category: c, Total: total})
	}
	slices.SortFunc(out, func(x, y CategoryTotal) int {
		return cmp.Or(y.Total.Cmp(x.Total), cmp.Compare(x.Category, y.Category))
	})
	return out
}

func expenses(txns []model.Transaction) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.IsExpense() {
			out = append(out, t)
		}
	}
	return out
}
