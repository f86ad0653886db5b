// Package report assembles every analysis into one text report.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/budget"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/debt"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/recurring"
	"github.com/cleared-dev/tally/internal/spending"
)

// highUtilizationThreshold flags cards above 50% utilization.
const highUtilizationThreshold = 0.5

// Input is everything a report is built from.
type Input struct {
	AsOf         time.Time // zero means the latest transaction date
	Transactions []model.Transaction
	Accounts     []model.DebtAccount
	Config       *config.Config
}

// Report holds the computed analyses, ready to render.
type Report struct {
	AsOf        time.Time
	GeneratedAt time.Time

	Spending *spending.Analyzer

	Charges         []model.RecurringCharge
	ChargesByCat    []recurring.CategoryCost
	Health          recurring.Health
	Gaps            []model.GapRecord
	DuplicateCharge []model.DuplicatePair

	HasManual           bool
	Subscriptions       []recurring.Subscription // detected and manual, manual overriding
	CancelledSubs       []recurring.Manual
	SubscriptionMonthly decimal.Decimal

	Large         []model.Transaction
	Outliers      []spending.Outlier
	Unusual       map[string][]model.Transaction
	DuplicateTxns []spending.DuplicateCharge

	Targets    []budget.CategoryStatus
	Funds      []budget.FundStatus
	FundsSaved decimal.Decimal

	HasDebt      bool
	TotalDebt    decimal.Decimal
	MonthlyInt   decimal.Decimal
	WeightedRate decimal.Decimal
	Plan         model.PayoffPlan
	Comparison   debt.Comparison
	Utilization  debt.UtilizationSummary
	HasCards     bool
	HighUtil     []debt.AccountUtilization
	Transfers    debt.TransferAnalysis
	Cuts         budget.CutPlan
	PayoffBudget budget.PayoffBudget
	Scenarios    []debt.Scenario
	HasIncome    bool
	Allocation   budget.Allocation
	Checking     budget.CheckingProjection
}

// Build runs every analysis over in. A nil Config uses config.Default.
func Build(in Input) (*Report, error) {
	cfg := in.Config
	if cfg == nil {
		cfg = config.Default()
	}
	strategy, err := cfg.PayoffStrategy()
	if err != nil {
		return nil, err
	}

	txns := in.Transactions
	asOf := in.AsOf
	if asOf.IsZero() {
		for _, t := range txns {
			if t.Date.After(asOf) {
				asOf = t.Date
			}
		}
	}

	det := recurring.NewDetector(cfg.DetectorOptions())
	charges := det.FindRecurring(txns)
	gaps := det.AnalyzeGaps(txns, asOf)
	dupes := recurring.DuplicatesAmong(charges)
	manual := cfg.ManualSubscriptions()
	an := spending.NewAnalyzer(txns)

	r := &Report{
		AsOf:                asOf,
		GeneratedAt:         time.Now(),
		Spending:            an,
		Charges:             charges,
		ChargesByCat:        recurring.MonthlyByCategory(charges),
		Health:              recurring.Summarize(charges, gaps, dupes),
		Gaps:                gaps,
		DuplicateCharge:     dupes,
		HasManual:           len(manual) > 0,
		Subscriptions:       recurring.Combine(charges, manual),
		CancelledSubs:       recurring.CancelledManual(manual),
		SubscriptionMonthly: recurring.CombinedMonthlyTotal(charges, manual),
		Large:               spending.LargePurchases(txns, spending.DefaultLargePercentile),
		Outliers:            spending.StatisticalOutliers(txns, spending.DefaultOutlierZ),
		Unusual:             spending.UnusualForCategory(txns, spending.DefaultCategoryAlerts()),
		DuplicateTxns:       spending.DuplicateTransactions(txns, spending.DefaultDuplicateTolerance),
		Targets:             budget.VsTargets(an, cfg.Budget.Targets),
		Funds:               budget.Funds(cfg.SinkingFunds),
		FundsSaved:          budget.TotalSaved(cfg.SinkingFunds),
	}

	accts := in.Accounts
	r.HasDebt = debt.TotalDebt(accts).IsPositive()
	if r.HasDebt {
		r.TotalDebt = debt.TotalDebt(accts)
		r.MonthlyInt = debt.TotalMonthlyInterest(accts)
		r.WeightedRate = debt.WeightedAverageRate(accts)
		r.Plan = debt.PayoffTimeline(accts, cfg.Debt.MonthlyBudget, strategy)
		r.Comparison = debt.Compare(accts, cfg.Debt.MonthlyBudget)
		r.Utilization, r.HasCards = debt.Utilization(accts)
		r.HighUtil = debt.HighUtilization(accts, highUtilizationThreshold)
		r.Transfers = debt.BalanceTransferCandidates(accts)
		r.Cuts = budget.SpendingCuts(an, cfg.Budget.Discretionary, cfg.Budget.CutShare)
	}

	if cfg.Budget.MonthlyIncome.IsPositive() {
		r.HasIncome = true
		r.PayoffBudget = budget.RecommendPayoffBudget(an, cfg.Budget.MonthlyIncome)
		r.Allocation = budget.PlanAllocation(budget.AllocationInput{
			MonthlyIncome:        cfg.Budget.MonthlyIncome,
			RecurringMonthly:     r.SubscriptionMonthly,
			SinkingContributions: budget.TotalContribution(cfg.SinkingFunds),
			MinimumDebtPayments:  debt.TotalMinimumPayments(accts),
			ExtraDebtShare:       cfg.Budget.ExtraDebtShare,
			HistoricalAverage:    an.AverageMonthly(),
		})
		r.Checking = budget.ProjectChecking(cfg.Budget.CheckingBalance, cfg.Budget.CheckingBuffer, r.Allocation)
		if r.HasDebt {
			r.Scenarios = debt.Scenarios(accts, r.Allocation.Remainder())
		}
	}
	return r, nil
}
