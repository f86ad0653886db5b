package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/report"
)

func newSubscriptionsCommand() *cobra.Command {
	var repo string
	var asOf string

	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subs"},
		Short:   "Show recurring charges, gaps and duplicate subscriptions",
		Args:    cobra.NoArgs,
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

			r, err := report.Build(report.Input{AsOf: at, Transactions: txns, Config: ws.cfg})
			if err != nil {
				return err
			}
			return r.RenderSubscriptions(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "path to tally workspace")
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date YYYY-MM-DD (default latest transaction)")

	return cmd
}
