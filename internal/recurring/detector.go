// Package recurring infers subscriptions and other recurring charges from
// unlabeled transaction history.
package recurring

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

const (
	DefaultMinOccurrences  = 3
	DefaultAmountTolerance = 0.05
	DefaultDayVariance     = 3

	// maxIntervalSpread is the largest stdev/mean ratio of gaps still
	// considered a consistent cadence.
	maxIntervalSpread = 0.5
)

// Options tune detection.
type Options struct {
	MinOccurrences  int
	AmountTolerance float64 // fractional spread of amounts, (max-min)/mean
	// DayVariance is the expected day-of-cycle drift. Informational only;
	// cadence consistency is judged by the gap standard deviation.
	DayVariance int
}

// DefaultOptions returns the standard detection thresholds.
func DefaultOptions() Options {
	return Options{
		MinOccurrences:  DefaultMinOccurrences,
		AmountTolerance: DefaultAmountTolerance,
		DayVariance:     DefaultDayVariance,
	}
}

// candidate holds one merchant's occurrences during a single detection pass.
type candidate struct {
	merchant  string
	txns      []model.Transaction
	gaps      []float64
	meanGap   float64
	stdGap    float64
	meanAmt   decimal.Decimal
	minAmt    decimal.Decimal
	maxAmt    decimal.Decimal
	amountVar float64
}

// FindRecurring groups transactions by merchant and returns the groups that
// repeat at a consistent interval and amount, highest confidence first.
// Transactions with non-positive amounts are ignored.
func FindRecurring(txns []model.Transaction, minOccurrences int, amountTolerance float64) []model.RecurringCharge {
	var charges []model.RecurringCharge
	for _, group := range groupByMerchant(txns) {
		if len(group.txns) < minOccurrences {
			continue
		}
		c, ok := analyze(group, amountTolerance)
		if !ok {
			continue
		}
		charges = append(charges, c.charge())
	}

	slices.SortFunc(charges, func(a, b model.RecurringCharge) int {
		if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
			return c
		}
		return cmp.Compare(a.Merchant, b.Merchant)
	})
	return charges
}

// groupByMerchant buckets expenses by exact merchant string, preserving
// first-seen order.
func groupByMerchant(txns []model.Transaction) []*candidate {
	byMerchant := make(map[string]*candidate)
	var order []*candidate
	for _, txn := range txns {
		if !txn.IsExpense() {
			continue
		}
		c, ok := byMerchant[txn.Merchant]
		if !ok {
			c = &candidate{merchant: txn.Merchant}
			byMerchant[txn.Merchant] = c
			order = append(order, c)
		}
		c.txns = append(c.txns, txn)
	}
	return order
}

// analyze applies the cadence and price consistency gates. The group's
// transaction slice is owned by the candidate and sorted in place.
func analyze(c *candidate, amountTolerance float64) (*candidate, bool) {
	slices.SortStableFunc(c.txns, func(a, b model.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	c.gaps = make([]float64, 0, len(c.txns)-1)
	for i := 1; i < len(c.txns); i++ {
		c.gaps = append(c.gaps, float64(model.DaysBetween(c.txns[i-1].Date, c.txns[i].Date)))
	}
	if len(c.gaps) == 0 {
		return nil, false
	}

	c.meanGap, c.stdGap = meanStdev(c.gaps)
	// Same-day charges only: there is no cadence to speak of.
	if c.meanGap <= 0 {
		return nil, false
	}
	if c.stdGap > c.meanGap*maxIntervalSpread {
		return nil, false
	}

	sum := decimal.Zero
	c.minAmt = c.txns[0].Amount
	c.maxAmt = c.txns[0].Amount
	for _, txn := range c.txns {
		sum = sum.Add(txn.Amount)
		c.minAmt = decimal.Min(c.minAmt, txn.Amount)
		c.maxAmt = decimal.Max(c.maxAmt, txn.Amount)
	}
	c.meanAmt = sum.Div(decimal.NewFromInt(int64(len(c.txns))))
	c.amountVar = c.maxAmt.Sub(c.minAmt).Div(c.meanAmt).InexactFloat64()
	if c.amountVar > amountTolerance {
		return nil, false
	}
	return c, true
}

func (c *candidate) charge() model.RecurringCharge {
	txns := slices.Clone(c.txns)
	return model.RecurringCharge{
		Merchant:       c.merchant,
		Category:       txns[0].Category,
		Amount:         c.meanAmt,
		AmountMin:      c.minAmt,
		AmountMax:      c.maxAmt,
		Count:          len(txns),
		IntervalDays:   c.meanGap,
		Interval:       ClassifyInterval(c.meanGap),
		StdDevDays:     c.stdGap,
		AmountVariance: c.amountVar,
		FirstDate:      txns[0].Date,
		LastDate:       txns[len(txns)-1].Date,
		Confidence:     Confidence(len(txns), c.stdGap, c.amountVar),
		Transactions:   txns,
	}
}

// meanStdev returns the mean and sample standard deviation. A single value
// has a standard deviation of zero.
func meanStdev(xs []float64) (mean, stdev float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	if len(xs) < 2 {
		return mean, 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(xs)-1))
}

// Confidence scores a detection from 0 to 100. Occurrences contribute up to
// 50 points (saturating at 10), interval stability up to 30 (zero at 10 days
// of stdev), and amount stability up to 20.
func Confidence(count int, stdDevDays, amountVariance float64) float64 {
	countScore := math.Min(float64(count)/10, 1) * 50
	stdScore := (1 - math.Min(stdDevDays/10, 1)) * 30
	amountScore := (1 - amountVariance) * 20
	return countScore + stdScore + amountScore
}

// latestDate returns the most recent expense date, or the zero time.
func latestDate(txns []model.Transaction) time.Time {
	var latest time.Time
	for _, txn := range txns {
		if txn.IsExpense() && txn.Date.After(latest) {
			latest = txn.Date
		}
	}
	return latest
}
