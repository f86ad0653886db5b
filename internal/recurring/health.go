package recurring

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Health summarizes the state of detected subscriptions.
type Health struct {
	Active              int
	PossiblyCancelled   int
	PotentialDuplicates int
	MonthlyTotal        decimal.Decimal
	AnnualTotal         decimal.Decimal
	Recommendation      string
}

// Detector runs detection with a fixed set of options.
type Detector struct {
	opts Options
}

// NewDetector returns a Detector. A non-positive MinOccurrences and negative
// tolerances fall back to defaults; a zero AmountTolerance requires identical
// amounts.
func NewDetector(opts Options) *Detector {
	if opts.MinOccurrences <= 0 {
		opts.MinOccurrences = DefaultMinOccurrences
	}
	if opts.AmountTolerance < 0 {
		opts.AmountTolerance = DefaultAmountTolerance
	}
	if opts.DayVariance < 0 {
		opts.DayVariance = DefaultDayVariance
	}
	return &Detector{opts: opts}
}

// Options returns the detector's effective options.
func (d *Detector) Options() Options { return d.opts }

// FindRecurring runs detection with the detector's thresholds.
func (d *Detector) FindRecurring(txns []model.Transaction) []model.RecurringCharge {
	return FindRecurring(txns, d.opts.MinOccurrences, d.opts.AmountTolerance)
}

// AnalyzeGaps reports possibly cancelled charges as of asOf.
func (d *Detector) AnalyzeGaps(txns []model.Transaction, asOf time.Time) []model.GapRecord {
	return analyzeGaps(txns, asOf, d.opts.AmountTolerance)
}

// Summarize builds the subscription health check from detection, gap and
// duplicate results that were already computed.
func Summarize(charges []model.RecurringCharge, gaps []model.GapRecord, dupes []model.DuplicatePair) Health {
	h := Health{
		Active:              len(charges),
		PossiblyCancelled:   len(gaps),
		PotentialDuplicates: len(dupes),
		MonthlyTotal:        MonthlyTotal(charges),
		AnnualTotal:         AnnualTotal(charges),
		Recommendation:      "subscriptions look clean",
	}
	if h.PossiblyCancelled > 0 || h.PotentialDuplicates > 0 {
		h.Recommendation = fmt.Sprintf("review %d possibly cancelled subscriptions and %d potential duplicates",
			h.PossiblyCancelled, h.PotentialDuplicates)
	}
	return h
}
