package recurring

import (
	"cmp"
	"slices"
	"time"

	"github.com/cleared-dev/tally/internal/model"
)

// gapMinOccurrences is lower than the detection default so that a charge
// seen only twice before stopping is still reported.
const gapMinOccurrences = 2

// gapFactor is how many expected intervals may pass before a charge is
// considered possibly cancelled.
const gapFactor = 1.5

// AnalyzeGaps reports recurring charges that have not appeared for more than
// 1.5 intervals as of asOf. A zero asOf means the latest transaction date in
// txns. Results are ordered by days since last occurrence, longest first.
func AnalyzeGaps(txns []model.Transaction, asOf time.Time) []model.GapRecord {
	return analyzeGaps(txns, asOf, DefaultAmountTolerance)
}

func analyzeGaps(txns []model.Transaction, asOf time.Time, amountTolerance float64) []model.GapRecord {
	if asOf.IsZero() {
		asOf = latestDate(txns)
	}
	if asOf.IsZero() {
		return nil
	}

	var gaps []model.GapRecord
	for _, c := range FindRecurring(txns, gapMinOccurrences, amountTolerance) {
		daysSince := model.DaysBetween(c.LastDate, asOf)
		if float64(daysSince) <= c.IntervalDays*gapFactor {
			continue
		}
		gaps = append(gaps, model.GapRecord{
			Merchant:         c.Merchant,
			LastOccurrence:   c.LastDate,
			DaysSince:        daysSince,
			ExpectedInterval: c.IntervalDays,
			Status:           model.GapStatusPossiblyCancelled,
			MonthlyImpact:    c.MonthlyCost(),
		})
	}

	slices.SortStableFunc(gaps, func(a, b model.GapRecord) int {
		return cmp.Compare(b.DaysSince, a.DaysSince)
	})
	return gaps
}
