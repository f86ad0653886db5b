package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/recurring"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Budget.MonthlyIncome = decimal.NewFromInt(2300)
	cfg.Budget.Targets = map[string]decimal.Decimal{
		"Groceries":       decimal.NewFromInt(300),
		"Dining & Drinks": decimal.NewFromInt(200),
	}
	cfg.SinkingFunds = []SinkingFund{
		{Name: "Down Payment", Goal: decimal.NewFromInt(60000), Balance: decimal.NewFromInt(27000), MonthlyContribution: decimal.NewFromInt(1500)},
	}
	cfg.Git.AutoCommit = true

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Detection, got.Detection)
	assert.Equal(t, cfg.Ingest.ExcludeCategories, got.Ingest.ExcludeCategories)
	assert.Equal(t, cfg.Ingest.IgnoreKeywords, got.Ingest.IgnoreKeywords)
	assert.True(t, cfg.Debt.MonthlyBudget.Equal(got.Debt.MonthlyBudget))
	assert.Equal(t, "avalanche", got.Debt.Strategy)
	assert.True(t, got.Budget.MonthlyIncome.Equal(decimal.NewFromInt(2300)))
	assert.True(t, got.Budget.ExtraDebtShare.Equal(decimal.RequireFromString("0.5")))
	require.Len(t, got.Budget.Targets, 2)
	assert.True(t, got.Budget.Targets["Groceries"].Equal(decimal.NewFromInt(300)))
	require.Len(t, got.SinkingFunds, 1)
	assert.Equal(t, "Down Payment", got.SinkingFunds[0].Name)
	assert.True(t, got.SinkingFunds[0].Goal.Equal(decimal.NewFromInt(60000)))
	assert.Equal(t, cfg.Git, got.Git)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, recurring.DefaultOptions(), cfg.DetectorOptions())
	assert.Contains(t, cfg.Ingest.ExcludeCategories, "Income")
	assert.Contains(t, cfg.Ingest.IgnoreKeywords, "APPLE CASH SENT")
	assert.Equal(t, "export", cfg.Ingest.DefaultFormat)
	assert.True(t, cfg.Budget.CheckingBuffer.Equal(decimal.NewFromInt(500)))
	assert.Empty(t, cfg.SinkingFunds)
	assert.False(t, cfg.Git.AutoCommit)
	assert.Equal(t, "tally", cfg.Git.AuthorName)

	s, err := cfg.PayoffStrategy()
	require.NoError(t, err)
	assert.Equal(t, model.Avalanche, s)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("debt:\n  monthly_budget: \"750.50\"\n  strategy: snowball\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "750.50", cfg.Debt.MonthlyBudget.StringFixed(2))
	assert.Equal(t, recurring.DefaultMinOccurrences, cfg.Detection.MinOccurrences)

	s, err := cfg.PayoffStrategy()
	require.NoError(t, err)
	assert.Equal(t, model.Snowball, s)
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("debt:\n  strategy: lottery\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "min_occurrences: 3")
	assert.Contains(t, contents, "amount_tolerance: 0.05")
	assert.Contains(t, contents, "strategy: avalanche")
	assert.Contains(t, contents, "exclude_categories:")
}

const subscriptionsYAML = `subscriptions:
  - name: Netflix Premium
    merchant: Netflix
    category: Entertainment & Rec.
    amount: 22.99
    interval_days: 30
    start_date: 2024-06-01
  - name: Old Gym
    merchant: Gym
    amount: 40
    interval_days: 30
    end_date: 2025-02-01
    cancelled: true
`

func TestLoadSubscriptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(subscriptionsYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Subscriptions, 2)
	assert.Equal(t, "22.99", cfg.Subscriptions[0].Amount.StringFixed(2))
	assert.Equal(t, "2024-06-01", cfg.Subscriptions[0].StartDate)

	manual := cfg.ManualSubscriptions()
	require.Len(t, manual, 2)
	assert.Equal(t, "Netflix", manual[0].Merchant)
	assert.Equal(t, 2024, manual[0].StartDate.Year())
	assert.False(t, manual[0].Cancelled)
	assert.True(t, manual[1].Cancelled)
	assert.Equal(t, time.February, manual[1].EndDate.Month())
}

func TestLoadRejectsInvalidSubscription(t *testing.T) {
	tests := []struct {
		yaml string
		want string
	}{
		{"subscriptions:\n  - merchant: Netflix\n    interval_days: 30\n", "name is required"},
		{"subscriptions:\n  - name: Netflix\n    interval_days: 30\n", "merchant is required"},
		{"subscriptions:\n  - name: Netflix\n    merchant: Netflix\n", "interval_days must be positive"},
		{"subscriptions:\n  - name: Netflix\n    merchant: Netflix\n    interval_days: 30\n    amount: -1\n", "is negative"},
		{"subscriptions:\n  - name: Netflix\n    merchant: Netflix\n    interval_days: 30\n    start_date: 06/01/2024\n", "expected YYYY-MM-DD"},
	}
	for _, tt := range tests {
		path := filepath.Join(t.TempDir(), FileName)
		require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
		_, err := Load(path)
		require.Error(t, err, tt.want)
		assert.Contains(t, err.Error(), tt.want)
	}
}

func TestLoadKeepsZeroAmountTolerance(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("detection:\n  amount_tolerance: 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Detection.AmountTolerance)
	assert.Zero(t, recurring.NewDetector(cfg.DetectorOptions()).Options().AmountTolerance)
	assert.Equal(t, recurring.DefaultMinOccurrences, cfg.Detection.MinOccurrences)
}

func TestDefaultCutSettings(t *testing.T) {
	cfg := Default()
	assert.Contains(t, cfg.Budget.Discretionary, "Dining & Drinks")
	assert.True(t, cfg.Budget.CutShare.Equal(decimal.RequireFromString("0.3")))
}
