package debt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func TestTotals(t *testing.T) {
	accounts := []model.DebtAccount{
		acct("Card", "1200", "0.24", "25"),
		acct("Loan", "2400", "0.06", "50"),
	}
	assert.Equal(t, "3600.00", TotalDebt(accounts).StringFixed(2))
	assert.Equal(t, "36.00", TotalMonthlyInterest(accounts).StringFixed(2))
	assert.Equal(t, "432.00", TotalAnnualInterest(accounts).StringFixed(2))
}

func TestWeightedAverageRate(t *testing.T) {
	accounts := []model.DebtAccount{
		acct("Card", "1000", "0.20", "25"),
		acct("Loan", "3000", "0.04", "50"),
	}
	assert.Equal(t, "0.0800", WeightedAverageRate(accounts).StringFixed(4))
}

func TestWeightedAverageRate_NoDebt(t *testing.T) {
	assert.True(t, WeightedAverageRate(nil).IsZero())
	assert.True(t, WeightedAverageRate([]model.DebtAccount{acct("Paid", "0", "0.2", "0")}).IsZero())
}

func TestClassifyUtilization(t *testing.T) {
	assert.Equal(t, BandLow, ClassifyUtilization(0))
	assert.Equal(t, BandLow, ClassifyUtilization(29.99))
	assert.Equal(t, BandModerate, ClassifyUtilization(30))
	assert.Equal(t, BandModerate, ClassifyUtilization(50))
	assert.Equal(t, BandHigh, ClassifyUtilization(50.01))
	assert.Equal(t, "moderate", BandModerate.String())
}

func TestUtilization(t *testing.T) {
	accounts := []model.DebtAccount{
		card("Chase", "1500", "5000", "0.21"),
		card("Amex", "4000", "5000", "0.27"),
		card("Discover", "200", "2000", "0.18"),
		acct("Student Loan", "20000", "0.05", "200"),
	}

	summary, ok := Utilization(accounts)
	require.True(t, ok)
	require.Len(t, summary.Accounts, 3)
	assert.Equal(t, BandModerate, summary.Accounts[0].Band)
	assert.Equal(t, BandHigh, summary.Accounts[1].Band)
	assert.Equal(t, BandLow, summary.Accounts[2].Band)
	assert.InDelta(t, 47.5, summary.Overall, 1e-9)
	assert.Equal(t, "slightly impacts", summary.Impact)

	high := HighUtilization(accounts, 0.5)
	require.Len(t, high, 1)
	assert.Equal(t, "Amex", high[0].Name)
	assert.InDelta(t, 80.0, high[0].Percent, 1e-9)
}

func TestUtilization_NoCards(t *testing.T) {
	_, ok := Utilization([]model.DebtAccount{acct("Auto", "9000", "0.045", "483.09")})
	assert.False(t, ok)
	assert.Nil(t, HighUtilization(nil, 0.5))
}

func TestUtilization_CardWithoutLimit(t *testing.T) {
	a := acct("Charge Card", "500", "0.20", "25")
	a.Type = model.AccountTypeCreditCard

	summary, ok := Utilization([]model.DebtAccount{a})
	require.True(t, ok)
	assert.Zero(t, summary.Overall)
	assert.Equal(t, "minimal impact", summary.Impact)
	assert.Equal(t, BandLow, summary.Accounts[0].Band)
}

func TestBalanceTransferCandidates(t *testing.T) {
	accounts := []model.DebtAccount{
		card("Rewards", "2000", "10000", "0.25"),
		card("Store", "1000", "3000", "0.29"),
		card("Promo", "5000", "8000", "0.02"),
		card("Gas", "100", "500", "0.18"),
		acct("Private Loan", "4000", "0.30", "100"),
	}

	got := BalanceTransferCandidates(accounts)
	require.Len(t, got.Candidates, 3)
	assert.Equal(t, "Store", got.Candidates[0].Name)
	assert.Equal(t, "30.00", got.Candidates[0].Fee.StringFixed(2))
	assert.Equal(t, "290.00", got.Candidates[0].InterestIfKept.StringFixed(2))
	assert.Equal(t, "260.00", got.Candidates[0].Savings.StringFixed(2))
	assert.Equal(t, "Rewards", got.Candidates[1].Name)
	assert.Equal(t, "Gas", got.Candidates[2].Name)
	assert.Equal(t, "715.00", got.TotalSavings.StringFixed(2))
}

func TestBalanceTransferCandidates_DropsUnprofitable(t *testing.T) {
	got := BalanceTransferCandidates([]model.DebtAccount{card("Promo", "5000", "8000", "0.02")})
	assert.Empty(t, got.Candidates)
	assert.True(t, got.TotalSavings.IsZero())
}

func TestScenarios(t *testing.T) {
	accounts := []model.DebtAccount{acct("Loan", "1000", "0.12", "50")}
	got := Scenarios(accounts, dec("500"))
	require.Len(t, got, 3)

	assert.Equal(t, "400.00", got[0].MonthlyToDebt.StringFixed(2))
	assert.InDelta(t, 2.5, got[0].MonthsToDebtFree, 1e-9)
	assert.Equal(t, "25.00", got[0].InterestCost.StringFixed(2))
	assert.Equal(t, "250.00", got[0].SavingsProgress.StringFixed(2))

	assert.InDelta(t, 4.0, got[1].MonthsToDebtFree, 1e-9)
	assert.Equal(t, "40.00", got[1].InterestCost.StringFixed(2))
	assert.Equal(t, "1000.00", got[1].SavingsProgress.StringFixed(2))

	assert.Equal(t, "50.00", got[2].MonthlyToDebt.StringFixed(2))
	assert.InDelta(t, 20.0, got[2].MonthsToDebtFree, 1e-9)
	assert.Equal(t, "200.00", got[2].InterestCost.StringFixed(2))
	assert.Equal(t, "9000.00", got[2].SavingsProgress.StringFixed(2))
}

func TestScenarios_NoSurplus(t *testing.T) {
	got := Scenarios([]model.DebtAccount{acct("Loan", "1000", "0.12", "50")}, dec("0"))
	require.Len(t, got, 3)
	assert.False(t, got[0].Finite())
	assert.False(t, got[1].Finite())
	assert.True(t, got[2].Finite())
}
