package debt

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// TotalDebt sums all balances.
func TotalDebt(accounts []model.DebtAccount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// TotalMonthlyInterest sums interest accruing this month across accounts.
func TotalMonthlyInterest(accounts []model.DebtAccount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.MonthlyInterest())
	}
	return total
}

// TotalAnnualInterest is a rough twelve-month interest figure.
func TotalAnnualInterest(accounts []model.DebtAccount) decimal.Decimal {
	return TotalMonthlyInterest(accounts).Mul(decimal.NewFromInt(12))
}

// WeightedAverageRate is the balance-weighted APR, or zero with no debt.
func WeightedAverageRate(accounts []model.DebtAccount) decimal.Decimal {
	total := TotalDebt(accounts)
	if total.IsZero() {
		return decimal.Zero
	}
	weighted := decimal.Zero
	for _, a := range accounts {
		weighted = weighted.Add(a.Balance.Mul(a.InterestRate))
	}
	return weighted.Div(total)
}

// UtilizationBand buckets a credit utilization percentage.
type UtilizationBand int

const (
	BandLow UtilizationBand = iota
	BandModerate
	BandHigh
)

func (b UtilizationBand) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandModerate:
		return "moderate"
	case BandHigh:
		return "high"
	}
	return "unknown"
}

// ClassifyUtilization: low below 30%, moderate 30-50%, high above 50%.
func ClassifyUtilization(pct float64) UtilizationBand {
	switch {
	case pct > 50:
		return BandHigh
	case pct >= 30:
		return BandModerate
	default:
		return BandLow
	}
}

// AccountUtilization is one credit card's utilization.
type AccountUtilization struct {
	Name    string
	Balance decimal.Decimal
	Limit   decimal.Decimal
	Percent float64
	Band    UtilizationBand
}

// UtilizationSummary covers every credit card account.
type UtilizationSummary struct {
	Overall  float64
	Accounts []AccountUtilization
	Impact   string
}

// Utilization reports per-card and overall utilization. ok is false when
// there are no credit card accounts.
func Utilization(accounts []model.DebtAccount) (summary UtilizationSummary, ok bool) {
	totalBalance := decimal.Zero
	totalLimit := decimal.Zero
	for _, a := range accounts {
		if a.Type != model.AccountTypeCreditCard {
			continue
		}
		ok = true
		pct, _ := a.Utilization()
		au := AccountUtilization{
			Name:    a.Name,
			Balance: a.Balance,
			Percent: pct,
			Band:    ClassifyUtilization(pct),
		}
		if a.CreditLimit.Valid {
			au.Limit = a.CreditLimit.Decimal
			totalLimit = totalLimit.Add(a.CreditLimit.Decimal)
		}
		totalBalance = totalBalance.Add(a.Balance)
		summary.Accounts = append(summary.Accounts, au)
	}
	if !ok {
		return UtilizationSummary{}, false
	}

	if totalLimit.IsPositive() {
		summary.Overall = totalBalance.Div(totalLimit).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	summary.Impact = creditImpact(summary.Overall)
	return summary, true
}

func creditImpact(overall float64) string {
	switch {
	case overall > 70:
		return "severely hurts"
	case overall > 50:
		return "hurts"
	case overall > 30:
		return "slightly impacts"
	default:
		return "minimal impact"
	}
}

// HighUtilization returns credit cards whose utilization exceeds threshold,
// given as a fraction (0.5 = 50%).
func HighUtilization(accounts []model.DebtAccount, threshold float64) []AccountUtilization {
	summary, ok := Utilization(accounts)
	if !ok {
		return nil
	}
	var high []AccountUtilization
	for _, au := range summary.Accounts {
		if au.Percent > threshold*100 {
			high = append(high, au)
		}
	}
	return high
}

// transferFeeRate is the assumed balance transfer fee.
var transferFeeRate = decimal.RequireFromString("0.03")

const maxTransferCandidates = 3

// TransferCandidate is a card worth moving to a 0% balance transfer offer.
type TransferCandidate struct {
	Name           string
	Balance        decimal.Decimal
	Rate           decimal.Decimal
	Fee            decimal.Decimal
	InterestIfKept decimal.Decimal // one year at the current rate
	Savings        decimal.Decimal
}

// TransferAnalysis lists balance transfer candidates.
type TransferAnalysis struct {
	Candidates   []TransferCandidate
	TotalSavings decimal.Decimal
}

// BalanceTransferCandidates ranks the three highest-rate credit cards and
// keeps those where a year of interest exceeds a 3% transfer fee.
func BalanceTransferCandidates(accounts []model.DebtAccount) TransferAnalysis {
	var cards []model.DebtAccount
	for _, a := range accounts {
		if a.Type == model.AccountTypeCreditCard {
			cards = append(cards, a)
		}
	}
	slices.SortStableFunc(cards, byRateDesc)
	if len(cards) > maxTransferCandidates {
		cards = cards[:maxTransferCandidates]
	}

	out := TransferAnalysis{TotalSavings: decimal.Zero}
	for _, a := range cards {
		fee := a.Balance.Mul(transferFeeRate)
		kept := a.Balance.Mul(a.InterestRate)
		savings := kept.Sub(fee)
		if !savings.IsPositive() {
			continue
		}
		out.Candidates = append(out.Candidates, TransferCandidate{
			Name:           a.Name,
			Balance:        a.Balance,
			Rate:           a.InterestRate,
			Fee:            fee,
			InterestIfKept: kept,
			Savings:        savings,
		})
		out.TotalSavings = out.TotalSavings.Add(savings)
	}
	return out
}
