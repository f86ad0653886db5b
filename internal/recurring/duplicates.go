package recurring

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// brandKeywords mark merchants that often bill under several descriptors.
var brandKeywords = []string{"paypal", "amazon", "apple", "google", "spotify", "netflix"}

// duplicateAmountSpread is the largest relative price difference for two
// charges to count as the same subscription.
var duplicateAmountSpread = decimal.RequireFromString("0.10")

const duplicateRecommendation = "verify if intentional"

// FindPotentialDuplicates returns pairs of detected recurring charges whose
// merchant names look alike and whose amounts are within 10% of each other.
func FindPotentialDuplicates(txns []model.Transaction) []model.DuplicatePair {
	return DuplicatesAmong(FindRecurring(txns, DefaultMinOccurrences, DefaultAmountTolerance))
}

// DuplicatesAmong pairs look-alike charges from an existing detection result.
func DuplicatesAmong(charges []model.RecurringCharge) []model.DuplicatePair {
	var pairs []model.DuplicatePair
	for i, a := range charges {
		for _, b := range charges[i+1:] {
			if !MerchantsSimilar(a.Merchant, b.Merchant) {
				continue
			}
			larger := decimal.Max(a.Amount, b.Amount)
			if !larger.IsPositive() {
				continue
			}
			diff := a.Amount.Sub(b.Amount).Abs().Div(larger)
			if !diff.LessThan(duplicateAmountSpread) {
				continue
			}
			pairs = append(pairs, model.DuplicatePair{
				Merchant1:       a.Merchant,
				Merchant2:       b.Merchant,
				Amount1:         a.Amount,
				Amount2:         b.Amount,
				CombinedMonthly: a.MonthlyCost().Add(b.MonthlyCost()),
				Recommendation:  duplicateRecommendation,
			})
		}
	}
	return pairs
}

// MerchantsSimilar reports whether two merchant names likely refer to the
// same service: equal ignoring case, one containing the other, or sharing a
// known brand keyword.
func MerchantsSimilar(m1, m2 string) bool {
	a := strings.ToLower(m1)
	b := strings.ToLower(m2)
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	for _, kw := range brandKeywords {
		if strings.Contains(a, kw) && strings.Contains(b, kw) {
			return true
		}
	}
	return false
}
