// Package debt simulates debt payoff under competing allocation strategies
// and reports on the shape of a debt portfolio.
package debt

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// ProjectionHorizonMonths bounds the interest projection for accounts whose
// payment never amortizes the balance.
const ProjectionHorizonMonths = 360

// MonthsToPayoff returns the number of months a fixed monthly payment needs
// to clear balance at monthlyRate, using the standard amortization formula.
// It returns +Inf when the payment is not positive or does not cover the
// monthly interest.
func MonthsToPayoff(balance, payment, monthlyRate float64) float64 {
	if payment <= 0 {
		return math.Inf(1)
	}
	if monthlyRate == 0 {
		return balance / payment
	}
	numerator := 1 - balance*monthlyRate/payment
	if numerator <= 0 {
		return math.Inf(1)
	}
	months := -math.Log(numerator) / math.Log(1+monthlyRate)
	return math.Max(0, months)
}

// AvalancheStrategy concentrates the surplus over all minimum payments on
// the highest-rate account.
func AvalancheStrategy(accounts []model.DebtAccount, monthlyBudget decimal.Decimal) model.PayoffPlan {
	return buildPlan(accounts, monthlyBudget, model.Avalanche)
}

// SnowballStrategy concentrates the surplus over all minimum payments on the
// smallest balance.
func SnowballStrategy(accounts []model.DebtAccount, monthlyBudget decimal.Decimal) model.PayoffPlan {
	return buildPlan(accounts, monthlyBudget, model.Snowball)
}

// PayoffTimeline runs the named strategy. An unknown strategy yields an
// empty plan.
func PayoffTimeline(accounts []model.DebtAccount, monthlyBudget decimal.Decimal, strategy model.Strategy) model.PayoffPlan {
	switch strategy {
	case model.Avalanche:
		return AvalancheStrategy(accounts, monthlyBudget)
	case model.Snowball:
		return SnowballStrategy(accounts, monthlyBudget)
	}
	return model.PayoffPlan{Strategy: strategy, MonthlyBudget: monthlyBudget}
}

// priorityOrder returns a copy of accounts in the strategy's target order.
// Ties keep input order.
func priorityOrder(accounts []model.DebtAccount, strategy model.Strategy) []model.DebtAccount {
	sorted := slices.Clone(accounts)
	switch strategy {
	case model.Avalanche:
		slices.SortStableFunc(sorted, byRateDesc)
	case model.Snowball:
		slices.SortStableFunc(sorted, func(a, b model.DebtAccount) int {
			return a.Balance.Cmp(b.Balance)
		})
	}
	return sorted
}

// buildPlan assigns every account its minimum and gives the top-priority
// account the remaining budget. Payoff months are computed per account
// independently; freed-up payments are not rolled into the next target.
func buildPlan(accounts []model.DebtAccount, monthlyBudget decimal.Decimal, strategy model.Strategy) model.PayoffPlan {
	plan := model.PayoffPlan{
		Strategy:      strategy,
		MonthlyBudget: monthlyBudget,
		TotalInterest: decimal.Zero,
	}
	if !monthlyBudget.IsPositive() || len(accounts) == 0 {
		return plan
	}

	surplus := monthlyBudget.Sub(TotalMinimumPayments(accounts))

	for i, acct := range priorityOrder(accounts, strategy) {
		payment := acct.MinimumPayment
		if i == 0 {
			payment = payment.Add(surplus)
		}
		entry := model.PayoffPlanEntry{
			Account:  acct,
			Payment:  payment,
			Priority: i + 1,
			MonthsToPayoff: MonthsToPayoff(
				acct.Balance.InexactFloat64(),
				payment.InexactFloat64(),
				acct.InterestRate.InexactFloat64()/12,
			),
		}
		plan.Entries = append(plan.Entries, entry)
		plan.MonthsToDebtFree = math.Max(plan.MonthsToDebtFree, entry.MonthsToPayoff)
		plan.TotalInterest = plan.TotalInterest.Add(ProjectInterest(entry))
	}
	return plan
}

// ProjectInterest simulates the entry month by month for the whole months of
// its payoff horizon and returns the interest accrued, unrounded. The
// simulation stops once the balance is cleared.
func ProjectInterest(entry model.PayoffPlanEntry) decimal.Decimal {
	months := ProjectionHorizonMonths
	if entry.Finite() {
		months = int(math.Floor(entry.MonthsToPayoff))
	}

	rate := entry.Account.MonthlyRate()
	remaining := entry.Account.Balance
	total := decimal.Zero
	for range months {
		interest := remaining.Mul(rate)
		total = total.Add(interest)
		remaining = remaining.Sub(entry.Payment.Sub(interest))
		if !remaining.IsPositive() {
			break
		}
	}
	return total
}

// TotalMinimumPayments sums the minimum payment of every account.
func TotalMinimumPayments(accounts []model.DebtAccount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.MinimumPayment)
	}
	return total
}

// Comparison sets both strategies side by side for one budget.
type Comparison struct {
	Avalanche     model.PayoffPlan
	Snowball      model.PayoffPlan
	InterestSaved decimal.Decimal // snowball interest minus avalanche interest
	MonthsSaved   float64         // snowball months minus avalanche months
}

// Recommended returns the strategy with lower projected interest, favoring
// avalanche on a tie.
func (c Comparison) Recommended() model.Strategy {
	if c.InterestSaved.IsNegative() {
		return model.Snowball
	}
	return model.Avalanche
}

// Compare runs both strategies for the same accounts and budget.
func Compare(accounts []model.DebtAccount, monthlyBudget decimal.Decimal) Comparison {
	av := AvalancheStrategy(accounts, monthlyBudget)
	sb := SnowballStrategy(accounts, monthlyBudget)
	c := Comparison{
		Avalanche:     av,
		Snowball:      sb,
		InterestSaved: sb.TotalInterest.Sub(av.TotalInterest),
	}
	if av.Finite() && sb.Finite() {
		c.MonthsSaved = sb.MonthsToDebtFree - av.MonthsToDebtFree
	}
	return c
}

// byRateDesc orders accounts highest rate first.
func byRateDesc(a, b model.DebtAccount) int {
	return b.InterestRate.Cmp(a.InterestRate)
}
