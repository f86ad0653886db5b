package report

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/cleared-dev/tally/internal/budget"
	"github.com/cleared-dev/tally/internal/debt"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/recurring"
)

const (
	dateFormat     = "2006-01-02"
	rule           = "======================================================================"
	labelWidth     = 40
	topMerchants   = 10
	maxCharges     = 15
	maxGaps        = 5
	maxLarge       = 10
	maxOutliers    = 8
	maxUnusualEach = 3
	maxDupTxns     = 5
)

// Render writes the report as text. Colors follow fatih/color's NoColor.
func (r *Report) Render(w io.Writer) error {
	ew := &errWriter{w: w}

	ew.printf("%s\n%s\n%s\n", rule, head("TALLY FINANCIAL REPORT"), rule)
	ew.printf("generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	if !r.AsOf.IsZero() {
		ew.printf("as of: %s\n", r.AsOf.Format(dateFormat))
	}

	r.renderSpending(ew)
	r.renderSubscriptions(ew)
	r.renderAnomalies(ew)
	r.renderBudget(ew)
	r.renderDebt(ew)
	r.renderCashFlow(ew)

	ew.printf("\n%s\n", rule)
	return ew.err
}

// RenderSubscriptions writes only the recurring charge sections.
func (r *Report) RenderSubscriptions(w io.Writer) error {
	ew := &errWriter{w: w}
	r.renderSubscriptions(ew)
	return ew.err
}

// RenderDebt writes only the debt sections.
func (r *Report) RenderDebt(w io.Writer) error {
	ew := &errWriter{w: w}
	r.renderDebt(ew)
	return ew.err
}

func (r *Report) renderSpending(ew *errWriter) {
	an := r.Spending
	if first, last, ok := an.DateRange(); ok {
		ew.printf("analysis period: %s to %s\n", first.Format(dateFormat), last.Format(dateFormat))
	}
	ew.printf("transactions analyzed: %d\n", len(an.Expenses()))

	total := an.Total()
	ew.section("overview")
	ew.printf("total spent: %s\n", money(total))
	ew.printf("avg monthly: %s\n", money(an.AverageMonthly()))
	ew.printf("months analyzed: %d\n", an.MonthCount())

	cats := an.ByCategory()
	if len(cats) == 0 {
		return
	}
	ew.section("spending by category")
	for _, c := range cats {
		share := c.Total.Div(total).InexactFloat64() * 100
		ew.printf("  %s %12s (%5.1f%%)\n", dotted(c.Category, labelWidth), money(c.Total), share)
	}

	ew.section("top merchants")
	for _, m := range an.TopMerchants(topMerchants) {
		ew.printf("  %s %12s x%d\n", dotted(m.Merchant, labelWidth), money(m.Total), m.Count)
	}
}

func (r *Report) renderSubscriptions(ew *errWriter) {
	ew.section("recurring charges")
	if len(r.Charges) == 0 {
		ew.printf("  (no recurring patterns detected)\n")
	}
	for i, c := range r.Charges {
		if i == maxCharges {
			ew.printf("  ... and %d more\n", len(r.Charges)-maxCharges)
			break
		}
		ew.printf("  %s %10s every %.0f days (%s) [confidence: %.0f%%]\n",
			dotted(c.Merchant, 35), money(c.Amount), c.IntervalDays, c.Interval, c.Confidence)
	}

	if len(r.ChargesByCat) > 0 {
		ew.section("recurring by category")
		for _, c := range r.ChargesByCat {
			ew.printf("  %s %12s/month\n", dotted(c.Category, labelWidth), money(c.Monthly))
		}
	}

	r.renderManual(ew)
	if len(r.Charges) == 0 && !r.HasManual {
		return
	}

	h := r.Health
	ew.section("subscription summary")
	ew.printf("  active subscriptions: %d\n", h.Active)
	ew.printf("  monthly total: %s\n", money(h.MonthlyTotal))
	ew.printf("  annual total: %s\n", money(h.AnnualTotal))
	if r.HasManual {
		ew.printf("  tracked subscriptions: %d\n", len(r.Subscriptions))
		ew.printf("  combined monthly: %s\n", money(r.SubscriptionMonthly))
		ew.printf("  combined annual: %s\n", money(r.SubscriptionMonthly.Mul(monthsPerYear)))
	}
	if h.PossiblyCancelled > 0 || h.PotentialDuplicates > 0 {
		ew.printf("  %s\n", warn(h.Recommendation))
	} else {
		ew.printf("  %s\n", good(h.Recommendation))
	}

	if len(r.Gaps) > 0 {
		ew.section("possibly cancelled subscriptions")
		for i, g := range r.Gaps {
			if i == maxGaps {
				break
			}
			ew.printf("  %s last %s, %d days ago (expected every %.0f days), was ~%s/month\n",
				dotted(g.Merchant, 30), g.LastOccurrence.Format(dateFormat), g.DaysSince,
				g.ExpectedInterval, money(g.MonthlyImpact))
		}
	}

	if len(r.DuplicateCharge) > 0 {
		ew.section("potential duplicate subscriptions")
		for _, d := range r.DuplicateCharge {
			ew.printf("  %s + %s\n", dotted(d.Merchant1, 25), d.Merchant2)
			ew.printf("    monthly cost: %s, %s\n", money(d.CombinedMonthly), warn(d.Recommendation))
		}
	}
}

func (r *Report) renderManual(ew *errWriter) {
	var manual []recurring.Subscription
	for _, sub := range r.Subscriptions {
		if sub.Source == recurring.SourceManual {
			manual = append(manual, sub)
		}
	}
	if len(manual) > 0 {
		ew.section("manual subscriptions")
		for _, m := range manual {
			ew.printf("  %s %10s (%s) %10s/month\n", dotted(m.Name, 35), money(m.Amount), m.Interval, money(m.Monthly))
			if m.Notes != "" {
				ew.printf("    %s\n", m.Notes)
			}
		}
	}

	if len(r.CancelledSubs) > 0 {
		ew.section("cancelled subscriptions")
		for _, m := range r.CancelledSubs {
			ended := "cancelled"
			if !m.EndDate.IsZero() {
				ended = "ended " + m.EndDate.Format(dateFormat)
			}
			ew.printf("  %s %10s, %s\n", dotted(m.Name, 35), money(m.Amount), ended)
		}
	}
}

func (r *Report) renderAnomalies(ew *errWriter) {
	if len(r.Large) > 0 {
		ew.section("large purchases (90th percentile)")
		for i, t := range r.Large {
			if i == maxLarge {
				break
			}
			ew.printf("  %s | %s | %12s\n", t.Date.Format(dateFormat), dotted(t.Merchant, 25), money(t.Amount))
		}
	}

	if len(r.Outliers) > 0 {
		ew.section("statistical outliers (2 sigma)")
		for i, o := range r.Outliers {
			if i == maxOutliers {
				break
			}
			ew.printf("  %s | %s | %12s (z-score: %.2f)\n",
				o.Transaction.Date.Format(dateFormat), dotted(o.Transaction.Merchant, 25),
				money(o.Transaction.Amount), o.ZScore)
		}
	}

	if len(r.Unusual) > 0 {
		ew.section("unusual spending by category")
		cats := make([]string, 0, len(r.Unusual))
		for c := range r.Unusual {
			cats = append(cats, c)
		}
		slices.Sort(cats)
		for _, c := range cats {
			ew.printf("  %s:\n", c)
			for i, t := range r.Unusual[c] {
				if i == maxUnusualEach {
					break
				}
				ew.printf("    %s | %s | %12s\n", t.Date.Format(dateFormat), dotted(t.Merchant, 20), money(t.Amount))
			}
		}
	}

	if len(r.DuplicateTxns) > 0 {
		ew.section("potential duplicate transactions")
		for i, d := range r.DuplicateTxns {
			if i == maxDupTxns {
				break
			}
			ew.printf("  %s %s %12s\n", d.First.Date.Format(dateFormat), dotted(d.First.Merchant, 25), money(d.First.Amount))
			ew.printf("  %s %s %12s\n\n", d.Second.Date.Format(dateFormat), dotted(d.Second.Merchant, 25), money(d.Second.Amount))
		}
	}
}

func (r *Report) renderBudget(ew *errWriter) {
	if len(r.Targets) > 0 {
		ew.section("budget vs targets (monthly avg)")
		targets := slices.Clone(r.Targets)
		slices.SortFunc(targets, func(a, b budget.CategoryStatus) int { return strings.Compare(a.Category, b.Category) })
		for _, t := range targets {
			mark := good("✓")
			if t.Over() {
				mark = bad("✗")
			}
			ew.printf("  %s %s %10s / %10s\n", mark, dotted(t.Category, 35), money(t.AvgMonthly), money(t.Target))
		}
	}

	if len(r.Funds) > 0 {
		ew.section("sinking funds")
		for _, f := range r.Funds {
			ew.printf("  %s %10s of %10s (%5.1f%%), %s\n",
				dotted(f.Fund.Name, 30), money(f.Fund.Balance), money(f.Fund.Goal), f.PercentComplete, fundETA(f))
		}
		ew.printf("  total saved: %s\n", money(r.FundsSaved))
	}
}

func (r *Report) renderDebt(ew *errWriter) {
	ew.section("debt")
	if !r.HasDebt {
		ew.printf("  %s\n", good("no outstanding debt"))
		return
	}
	ew.printf("  total debt: %s\n", money(r.TotalDebt))
	ew.printf("  monthly interest: %s\n", money(r.MonthlyInt))
	ew.printf("  weighted average rate: %s\n", pct(r.WeightedRate))

	if r.HasIncome {
		b := r.PayoffBudget
		ew.section("payoff budget")
		ew.printf("  %s %12s\n", dotted("monthly income", labelWidth), money(b.MonthlyIncome))
		ew.printf("  %s %12s\n", dotted("avg monthly spending", labelWidth), money(b.MonthlySpending))
		ew.printf("  %s %12s\n", dotted("available for debt", labelWidth), money(b.AvailableForDebt))
		if b.Advice == budget.AdviceMinimal {
			ew.printf("  %s\n", warn(b.Advice.String()))
		} else {
			ew.printf("  %s\n", good(b.Advice.String()))
		}
	}

	renderPlan(ew, r.Plan)
	if !r.Comparison.Avalanche.IsEmpty() {
		renderComparison(ew, r.Comparison)
	}

	if r.HasCards {
		u := r.Utilization
		ew.section("credit utilization")
		for _, a := range u.Accounts {
			ew.printf("  %s %5.1f%% %s\n", dotted(a.Name, 32), a.Percent, bandColor(a.Band))
		}
		ew.printf("  overall: %.1f%% (%s)\n", u.Overall, u.Impact)
		for _, h := range r.HighUtil {
			ew.printf("  %s\n", warn("pay down "+h.Name+" below 50%"))
		}
	}

	if len(r.Transfers.Candidates) > 0 {
		ew.section("balance transfer candidates")
		for _, t := range r.Transfers.Candidates {
			ew.printf("  %s %10s at %s: fee %s, saves %s/year\n",
				dotted(t.Name, 32), money(t.Balance), pct(t.Rate), money(t.Fee), money(t.Savings))
		}
		ew.printf("  total potential savings: %s\n", money(r.Transfers.TotalSavings))
	}

	if len(r.Cuts.Cuts) > 0 {
		ew.section("spending cuts for debt payoff")
		for _, c := range r.Cuts.Cuts {
			ew.printf("  %s %10s/month, cut %10s, leaves %10s\n",
				dotted(c.Category, 32), money(c.CurrentMonthly), money(c.PotentialCut), money(c.RemainingBudget))
		}
		ew.printf("  frees %s/month, %s/year toward debt\n", money(r.Cuts.MonthlySavings), money(r.Cuts.AnnualPayoff))
	}
}

func (r *Report) renderCashFlow(ew *errWriter) {
	if !r.HasIncome {
		return
	}

	if len(r.Scenarios) > 0 {
		ew.section("debt vs savings scenarios")
		for _, s := range r.Scenarios {
			ew.printf("  %s\n", s.Name)
			ew.printf("    to debt %s, to savings %s, debt free in %s\n",
				money(s.MonthlyToDebt), money(s.MonthlyToSavings), months(s.MonthsToDebtFree))
			if s.Finite() {
				ew.printf("    interest %s, saved by then %s\n", money(s.InterestCost), money(s.SavingsProgress))
			}
		}
	}

	a := r.Allocation
	ew.section("monthly allocation")
	ew.printf("  %s %12s\n", dotted("income", labelWidth), money(a.Income))
	ew.printf("  %s %12s\n", dotted("1. essentials (recurring)", labelWidth), money(a.Essentials))
	ew.printf("  %s %12s\n", dotted("2. savings goals (sinking funds)", labelWidth), money(a.Savings))
	ew.printf("  %s %12s\n", dotted("3. minimum debt payments", labelWidth), money(a.MinimumDebt))
	ew.printf("  %s %12s\n", dotted("4. extra debt payoff", labelWidth), money(a.ExtraDebt))
	ew.printf("  %s %12s\n", dotted("5. discretionary", labelWidth), money(a.Discretionary))
	ew.printf("  %s %12s\n", dotted("projected surplus vs history", labelWidth), money(a.ProjectedSurplus))

	c := r.Checking
	ew.section("checking projection")
	ew.printf("  start of month: %s\n", money(c.StartBalance))
	ew.printf("  income: %s\n", money(c.Income))
	ew.printf("  outflows: %s\n", money(c.Outflows))
	ew.printf("  end of month: %s\n", money(c.EndBalance))
	ew.printf("  status: %s\n", statusColor(c.Status))
}

// WritePlan writes a single payoff plan.
func WritePlan(w io.Writer, p model.PayoffPlan) error {
	ew := &errWriter{w: w}
	renderPlan(ew, p)
	return ew.err
}

// WriteComparison writes an avalanche versus snowball comparison.
func WriteComparison(w io.Writer, c debt.Comparison) error {
	ew := &errWriter{w: w}
	renderComparison(ew, c)
	return ew.err
}

// WriteAccounts lists the accounts of one type. Nothing is written when
// there are none.
func WriteAccounts(w io.Writer, t model.AccountType, accts []model.DebtAccount) error {
	if len(accts) == 0 {
		return nil
	}
	ew := &errWriter{w: w}
	ew.section(strings.ReplaceAll(string(t), "_", " "))
	for _, a := range accts {
		status := money(a.Balance)
		if !a.Balance.IsPositive() {
			status = good("paid off")
		}
		ew.printf("  %s %12s at %7s, min %s\n", dotted(a.Name, 32), status, pct(a.InterestRate), money(a.MinimumPayment))
	}
	return ew.err
}

// WriteAccount shows one account with its interest and minimum-payment horizon.
func WriteAccount(w io.Writer, a model.DebtAccount) error {
	ew := &errWriter{w: w}
	ew.section(a.Name)
	ew.printf("  type: %s\n", a.Type)
	ew.printf("  balance: %s\n", money(a.Balance))
	if a.CreditLimit.Valid {
		ew.printf("  credit limit: %s\n", money(a.CreditLimit.Decimal))
	}
	if u, ok := a.Utilization(); ok {
		ew.printf("  utilization: %.1f%% %s\n", u, bandColor(debt.ClassifyUtilization(u)))
	}
	ew.printf("  interest rate: %s\n", pct(a.InterestRate))
	ew.printf("  monthly interest: %s\n", money(a.MonthlyInterest()))
	ew.printf("  minimum payment: %s\n", money(a.MinimumPayment))
	ew.printf("  at minimum only: %s\n", months(debt.MonthsToPayoff(
		a.Balance.InexactFloat64(), a.MinimumPayment.InexactFloat64(), a.MonthlyRate().InexactFloat64())))
	return ew.err
}

func renderPlan(ew *errWriter, p model.PayoffPlan) {
	ew.section("payoff plan (" + p.Strategy.String() + ")")
	if p.IsEmpty() {
		ew.printf("  %s\n", warn("no payoff budget configured"))
		return
	}
	for _, e := range p.Entries {
		ew.printf("  %d. %s %10s/month  %s\n", e.Priority, dotted(e.Account.Name, 32), money(e.Payment), months(e.MonthsToPayoff))
	}
	if p.Finite() {
		ew.printf("  debt free in: %s (%.1f years)\n", months(p.MonthsToDebtFree), p.YearsToDebtFree())
	} else {
		ew.printf("  debt free in: %s\n", bad("never at this budget"))
	}
	ew.printf("  projected interest: %s\n", money(p.TotalInterest))
}

func renderComparison(ew *errWriter, c debt.Comparison) {
	ew.section("strategy comparison")
	ew.printf("  avalanche: %s, interest %s\n", months(c.Avalanche.MonthsToDebtFree), money(c.Avalanche.TotalInterest))
	ew.printf("  snowball:  %s, interest %s\n", months(c.Snowball.MonthsToDebtFree), money(c.Snowball.TotalInterest))
	ew.printf("  recommended: %s (saves %s)\n", c.Recommended(), money(c.InterestSaved.Abs()))
}

func fundETA(f budget.FundStatus) string {
	switch {
	case !f.Reachable():
		return bad("unreachable without contributions")
	case f.MonthsToGoal == 0:
		return good("goal met")
	default:
		return fmt.Sprintf("%s to go (%.1f years)", months(f.MonthsToGoal), f.YearsToGoal())
	}
}

func bandColor(b debt.UtilizationBand) string {
	switch b {
	case debt.BandHigh:
		return bad(b.String())
	case debt.BandModerate:
		return warn(b.String())
	default:
		return good(b.String())
	}
}

func statusColor(s budget.BufferStatus) string {
	switch s {
	case budget.OverdraftRisk:
		return bad(s.String())
	case budget.LowBuffer:
		return warn(s.String())
	default:
		return good(s.String())
	}
}
