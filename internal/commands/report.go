package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/report"
	"github.com/cleared-dev/tally/internal/runlog"
)

func newReportCommand() *cobra.Command {
	var repo string
	var asOf string
	var outPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the full financial report",
		Args:  cobra.NoArgs,
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

			r, err := report.Build(report.Input{
				AsOf:         at,
				Transactions: txns,
				Accounts:     accts,
				Config:       ws.cfg,
			})
			if err != nil {
				return err
			}

			if outPath == "" {
				return r.Render(cmd.OutOrStdout())
			}

			// Files never carry ANSI escapes.
			color.NoColor = true
			var buf bytes.Buffer
			if err := r.Render(&buf); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return fmt.Errorf("creating report dir: %w", err)
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}

			run := runlog.NewRun("report")
			if err := runlog.Append(ws.root, []runlog.Entry{run.Entry("write_report", outPath, len(txns))}); err != nil {
				return fmt.Errorf("writing run log: %w", err)
			}
			logger.FromContext(cmd.Context()).Info().
				Str("file", outPath).
				Int("transactions", len(txns)).
				Str("run_id", run.ID.String()).
				Msg("wrote report")

			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "path to tally workspace")
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference date YYYY-MM-DD (default latest transaction)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the report to a file instead of stdout")

	return cmd
}
