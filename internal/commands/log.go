package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/runlog"
)

func newLogCommand() *cobra.Command {
	var repo string
	var runID string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the run log, optionally for a single run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repo)
			if err != nil {
				return err
			}
			entries, err := runlog.Read(ws.root)
			if err != nil {
				return err
			}

			if runID != "" {
				id, err := uuid.Parse(runID)
				if err != nil {
					return fmt.Errorf("invalid --run %q: %w", runID, err)
				}
				entries = runlog.ByRun(entries, id)
				if len(entries) == 0 {
					return fmt.Errorf("no entries for run %s", id)
				}
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No runs logged")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s  %-8s %-14s %6d  %s\n",
					e.Timestamp.Format(time.RFC3339), e.RunID, e.Command, e.Action, e.Count, e.Details)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "path to tally workspace")
	cmd.Flags().StringVar(&runID, "run", "", "only show entries for this run ID")

	return cmd
}
