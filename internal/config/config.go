package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/recurring"
)

// FileName is the workspace configuration file.
const FileName = "tally.yaml"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Detection     DetectionConfig `yaml:"detection"`
	Ingest        IngestConfig    `yaml:"ingest"`
	Debt          DebtConfig      `yaml:"debt"`
	Budget        BudgetConfig    `yaml:"budget"`
	SinkingFunds  []SinkingFund   `yaml:"sinking_funds,omitempty"`
	Subscriptions []Subscription  `yaml:"subscriptions,omitempty"`
	Git           GitConfig       `yaml:"git"`
}

// DetectionConfig tunes recurring charge detection.
type DetectionConfig struct {
	MinOccurrences  int     `yaml:"min_occurrences"`
	AmountTolerance float64 `yaml:"amount_tolerance"`
	DayVariance     int     `yaml:"day_variance"`
}

// IngestConfig controls which imported rows count as spending.
type IngestConfig struct {
	ExcludeCategories []string `yaml:"exclude_categories"`
	IgnoreKeywords    []string `yaml:"ignore_keywords"` // matched against upper-cased description
	DefaultFormat     string   `yaml:"default_format"`
}

// DebtConfig sets the payoff budget.
type DebtConfig struct {
	MonthlyBudget decimal.Decimal `yaml:"monthly_budget"`
	Strategy      string          `yaml:"strategy"`
}

// BudgetConfig holds monthly income and per-category spending targets.
type BudgetConfig struct {
	MonthlyIncome   decimal.Decimal            `yaml:"monthly_income"`
	CheckingBalance decimal.Decimal            `yaml:"checking_balance"`
	CheckingBuffer  decimal.Decimal            `yaml:"checking_buffer"`
	ExtraDebtShare  decimal.Decimal            `yaml:"extra_debt_share"` // share of leftover income sent to debt
	Targets         map[string]decimal.Decimal `yaml:"targets,omitempty"`

	// Discretionary categories are candidates for cuts that free money for debt.
	Discretionary []string        `yaml:"discretionary_categories"`
	CutShare      decimal.Decimal `yaml:"cut_share"`
}

// SinkingFund is a savings bucket working toward a fixed goal.
type SinkingFund struct {
	Name                string          `yaml:"name"`
	Goal                decimal.Decimal `yaml:"goal"`
	Balance             decimal.Decimal `yaml:"balance"`
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution"`
}

// Subscription is a manually tracked subscription. It overrides a detected
// recurring charge for the same merchant.
type Subscription struct {
	Name         string          `yaml:"name"`
	Merchant     string          `yaml:"merchant"`
	Category     string          `yaml:"category"`
	Amount       decimal.Decimal `yaml:"amount"`
	IntervalDays int             `yaml:"interval_days"`
	StartDate    string          `yaml:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      string          `yaml:"end_date,omitempty"`
	Notes        string          `yaml:"notes,omitempty"`
	Cancelled    bool            `yaml:"cancelled,omitempty"`
}

func (s Subscription) validate() error {
	switch {
	case s.Name == "":
		return fmt.Errorf("subscription for %q: name is required", s.Merchant)
	case s.Merchant == "":
		return fmt.Errorf("subscription %q: merchant is required", s.Name)
	case s.IntervalDays <= 0:
		return fmt.Errorf("subscription %q: interval_days must be positive", s.Name)
	case s.Amount.IsNegative():
		return fmt.Errorf("subscription %q: amount %s is negative", s.Name, s.Amount)
	}
	for _, d := range []string{s.StartDate, s.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("subscription %q: date %q: expected YYYY-MM-DD", s.Name, d)
		}
	}
	return nil
}

const dateLayout = "2006-01-02"

// parseDate returns the zero time for an empty or invalid date; Load
// rejects invalid dates.
func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

// GitConfig controls versioning of the workspace.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"` // commit after each import
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// DetectorOptions converts detection settings for the recurring package.
func (c *Config) DetectorOptions() recurring.Options {
	return recurring.Options{
		MinOccurrences:  c.Detection.MinOccurrences,
		AmountTolerance: c.Detection.AmountTolerance,
		DayVariance:     c.Detection.DayVariance,
	}
}

// ManualSubscriptions converts configured subscriptions for the recurring package.
func (c *Config) ManualSubscriptions() []recurring.Manual {
	out := make([]recurring.Manual, 0, len(c.Subscriptions))
	for _, s := range c.Subscriptions {
		out = append(out, recurring.Manual{
			Name:         s.Name,
			Merchant:     s.Merchant,
			Category:     s.Category,
			Amount:       s.Amount,
			IntervalDays: s.IntervalDays,
			StartDate:    parseDate(s.StartDate),
			EndDate:      parseDate(s.EndDate),
			Notes:        s.Notes,
			Cancelled:    s.Cancelled,
		})
	}
	return out
}

// PayoffStrategy parses the configured strategy, defaulting to avalanche.
func (c *Config) PayoffStrategy() (model.Strategy, error) {
	if c.Debt.Strategy == "" {
		return model.Avalanche, nil
	}
	return model.ParseStrategy(c.Debt.Strategy)
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if _, err := cfg.PayoffStrategy(); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for _, sub := range cfg.Subscriptions {
		if err := sub.validate(); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			MinOccurrences:  recurring.DefaultMinOccurrences,
			AmountTolerance: recurring.DefaultAmountTolerance,
			DayVariance:     recurring.DefaultDayVariance,
		},
		Ingest: IngestConfig{
			ExcludeCategories: []string{
				"Internal Transfers",
				"Credit Card Payment",
				"Savings Transfer",
				"Investment",
				"Loan Payment",
				"Income",
			},
			IgnoreKeywords: []string{
				"PAYPAL INSTANT TRANSFER",
				"PAYPAL *",
				"APPLE CASH SENT",
			},
			DefaultFormat: "export",
		},
		Debt: DebtConfig{
			MonthlyBudget: decimal.NewFromInt(600),
			Strategy:      "avalanche",
		},
		Budget: BudgetConfig{
			MonthlyIncome:   decimal.Zero,
			CheckingBalance: decimal.Zero,
			CheckingBuffer:  decimal.NewFromInt(500),
			ExtraDebtShare:  decimal.RequireFromString("0.5"),
			Discretionary: []string{
				"Dining & Drinks",
				"Entertainment & Rec.",
				"Shopping",
				"Software & Tech",
			},
			CutShare: decimal.RequireFromString("0.3"),
		},
		Git: GitConfig{
			AuthorName:  "tally",
			AuthorEmail: "tally@localhost",
		},
	}
}
