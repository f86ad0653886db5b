package recurring

import "github.com/cleared-dev/tally/internal/model"

// intervalBuckets are inclusive day ranges for named cadences.
var intervalBuckets = []struct {
	kind     model.IntervalKind
	min, max float64
}{
	{model.IntervalWeekly, 6, 8},
	{model.IntervalBiWeekly, 13, 15},
	{model.IntervalMonthly, 27, 31},
	{model.IntervalQuarterly, 89, 92},
	{model.IntervalAnnual, 364, 366},
}

// ClassifyInterval buckets a mean gap in days into a named cadence.
func ClassifyInterval(days float64) model.Interval {
	for _, b := range intervalBuckets {
		if days >= b.min && days <= b.max {
			return model.Interval{Kind: b.kind, Days: days}
		}
	}
	return model.Interval{Kind: model.IntervalCustom, Days: days}
}
