package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/debt"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/report"
)

func newDebtCommand() *cobra.Command {
	var repo string
	var asOf string

	cmd := &cobra.Command{
		Use:   "debt",
		Short: "Debt overview and payoff planning",
		Long: "Without a subcommand, prints the debt sections of the report: totals,\n" +
			"payoff budget, spending cuts, payoff plan, utilization and transfers.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repo)
			if err != nil {
				return err
			}
			at, err := parseAsOf(asOf)
			if err != nil {
				return err
			}
			txns, err := ws.transactions()
			if err != nil {
				return err
			}
			accts, err := ws.debtAccounts()
			if err != nil {
				return err
			}

			r, err := report.Build(report.Input{AsOf: at, Transactions: txns, Accounts: accts, Config: ws.cfg})
			if err != nil {
				return err
			}
			return r.RenderDebt(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "path to tally workspace")
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date YYYY-MM-DD (default latest transaction)")

	cmd.AddCommand(newDebtPlanCommand())
	cmd.AddCommand(newDebtCompareCommand())
	cmd.AddCommand(newDebtAccountsCommand())

	return cmd
}

func newDebtAccountsCommand() *cobra.Command {
	var repo string

	cmd := &cobra.Command{
		Use:   "accounts [name]",
		Short: "List debt accounts by type, or show one account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repo)
			if err != nil {
				return err
			}
			book, err := ws.accountBook()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				a, ok := book.Get(args[0])
				if !ok {
					return fmt.Errorf("unknown account %q", args[0])
				}
				return report.WriteAccount(out, a)
			}

			if len(book.All()) == 0 {
				fmt.Fprintln(out, "No debt accounts")
				return nil
			}
			for _, t := range model.AccountTypes {
				if err := report.WriteAccounts(out, t, book.ByType(t)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "path to tally workspace")

	return cmd
}

func newDebtPlanCommand() *cobra.Command {
	var repo string
	var budget string
	var strategy string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the payoff timeline for one strategy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, accts, amount, err := loadDebtInputs(repo, budget)
			if err != nil {
				return err
			}

			if strategy == "" {
				strategy = ws.cfg.Debt.Strategy
			}
			s, err := model.ParseStrategy(strategy)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !debt.TotalDebt(accts).IsPositive() {
				fmt.Fprintln(out, "No outstanding debt")
				return nil
			}
			return report.WritePlan(out, debt.PayoffTimeline(accts, amount, s))
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "path to tally workspace")
	cmd.Flags().StringVar(&budget, "budget", "", "monthly payoff budget (default from tally.yaml)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "avalanche or snowball (default from tally.yaml)")

	return cmd
}

func newDebtCompareCommand() *cobra.Command {
	var repo string
	var budget string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare avalanche and snowball for the same budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, accts, amount, err := loadDebtInputs(repo, budget)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !debt.TotalDebt(accts).IsPositive() {
				fmt.Fprintln(out, "No outstanding debt")
				return nil
			}
			return report.WriteComparison(out, debt.Compare(accts, amount))
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "path to tally workspace")
	cmd.Flags().StringVar(&budget, "budget", "", "monthly payoff budget (default from tally.yaml)")

	return cmd
}

// loadDebtInputs opens the workspace and resolves the payoff budget,
// preferring the flag over the configured value.
func loadDebtInputs(repo, budget string) (*workspace, []model.DebtAccount, decimal.Decimal, error) {
	ws, err := openWorkspace(repo)
	if err != nil {
		return nil, nil, decimal.Zero, err
	}
	accts, err := ws.debtAccounts()
	if err != nil {
		return nil, nil, decimal.Zero, err
	}

	amount := ws.cfg.Debt.MonthlyBudget
	if budget != "" {
		amount, err = decimal.NewFromString(budget)
		if err != nil {
			return nil, nil, decimal.Zero, fmt.Errorf("invalid --budget %q: %w", budget, err)
		}
		if amount.IsNegative() {
			return nil, nil, decimal.Zero, fmt.Errorf("invalid --budget %q: must not be negative", budget)
		}
	}
	return ws, accts, amount, nil
}
