package spending

import (
	"cmp"
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

const (
	// DefaultLargePercentile marks purchases at or above the 90th percentile.
	DefaultLargePercentile = 90.0
	// DefaultOutlierZ is the z-score at which a purchase counts as an outlier.
	DefaultOutlierZ = 2.0
	// DefaultDuplicateTolerance is the relative amount difference allowed
	// between two charges that may be the same purchase twice.
	DefaultDuplicateTolerance = 0.01

	duplicateWindowDays = 7
)

// Outlier is a purchase far from the mean purchase amount.
type Outlier struct {
	Transaction model.Transaction
	ZScore      float64
}

// DuplicateCharge is a pair of same-merchant charges close in time and amount.
type DuplicateCharge struct {
	First  model.Transaction
	Second model.Transaction
}

// DefaultCategoryAlerts are the per-category single-purchase amounts
// above which a purchase is unusual for its category.
func DefaultCategoryAlerts() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"Dining & Drinks":      decimal.NewFromInt(100),
		"Shopping":             decimal.NewFromInt(200),
		"Entertainment & Rec.": decimal.NewFromInt(150),
		"Groceries":            decimal.NewFromInt(250),
		"Auto & Transport":     decimal.NewFromInt(300),
	}
}

// LargePurchases returns purchases at or above the given percentile of
// purchase amounts, largest first.
func LargePurchases(txns []model.Transaction, percentile float64) []model.Transaction {
	exp := expenses(txns)
	if len(exp) == 0 {
		return nil
	}

	amounts := make([]decimal.Decimal, len(exp))
	for i, t := range exp {
		amounts[i] = t.Amount
	}
	slices.SortFunc(amounts, decimal.Decimal.Cmp)

	idx := int(float64(len(amounts)) * percentile / 100)
	idx = min(max(idx, 0), len(amounts)-1)
	threshold := amounts[idx]

	var large []model.Transaction
	for _, t := range exp {
		if t.Amount.GreaterThanOrEqual(threshold) {
			large = append(large, t)
		}
	}
	slices.SortStableFunc(large, func(x, y model.Transaction) int { return y.Amount.Cmp(x.Amount) })
	return large
}

// StatisticalOutliers returns purchases whose amount lies at least
// threshold sample standard deviations from the mean, largest z first.
func StatisticalOutliers(txns []model.Transaction, threshold float64) []Outlier {
	exp := expenses(txns)
	if len(exp) < 2 {
		return nil
	}

	amounts := make([]float64, len(exp))
	for i, t := range exp {
		amounts[i] = t.Amount.InexactFloat64()
	}
	mean, std := meanStdev(amounts)
	if std == 0 {
		return nil
	}

	var out []Outlier
	for i, t := range exp {
		z := math.Abs(amounts[i]-mean) / std
		if z >= threshold {
			out = append(out, Outlier{Transaction: t, ZScore: z})
		}
	}
	slices.SortStableFunc(out, func(x, y Outlier) int { return cmp.Compare(y.ZScore, x.ZScore) })
	return out
}

// UnusualForCategory returns purchases above their category's alert
// amount, grouped by category and largest first within each.
func UnusualForCategory(txns []model.Transaction, alerts map[string]decimal.Decimal) map[string][]model.Transaction {
	out := make(map[string][]model.Transaction)
	for _, t := range expenses(txns) {
		limit, ok := alerts[t.Category]
		if ok && t.Amount.GreaterThan(limit) {
			out[t.Category] = append(out[t.Category], t)
		}
	}
	for c := range out {
		slices.SortStableFunc(out[c], func(x, y model.Transaction) int { return y.Amount.Cmp(x.Amount) })
	}
	return out
}

// DuplicateTransactions pairs charges from the same merchant no more than
// a week apart whose amounts differ by at most tolerance of the larger one.
// Pairs come back in input order.
func DuplicateTransactions(txns []model.Transaction, tolerance float64) []DuplicateCharge {
	exp := expenses(txns)

	var out []DuplicateCharge
	for i, a := range exp {
		for _, b := range exp[i+1:] {
			if a.Merchant != b.Merchant {
				continue
			}
			larger := decimal.Max(a.Amount, b.Amount)
			diff := a.Amount.Sub(b.Amount).Abs().Div(larger).InexactFloat64()
			if diff > tolerance {
				continue
			}
			days := model.DaysBetween(a.Date, b.Date)
			if days < 0 {
				days = -days
			}
			if days > duplicateWindowDays {
				continue
			}
			out = append(out, DuplicateCharge{First: a, Second: b})
		}
	}
	return out
}

func meanStdev(xs []float64) (mean, std float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	if len(xs) < 2 {
		return mean, 0
	}
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}
