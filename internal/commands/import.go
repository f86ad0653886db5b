package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/importer"
	"github.com/cleared-dev/tally/internal/logger"
	"github.com/cleared-dev/tally/internal/runlog"
	"github.com/cleared-dev/tally/internal/txnstore"
)

func newImportCommand() *cobra.Command {
	var repo string
	var format string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import bank CSV exports from the import/ directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repo)
			if err != nil {
				return err
			}
			if format == "" {
				format = ws.cfg.Ingest.DefaultFormat
			}

			reg := importer.DefaultRegistry()
			parser := reg.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(reg.Formats(), ", "))
			}

			log := logger.FromContext(cmd.Context())
			out := cmd.OutOrStdout()

			files, err := importer.Scan(ws.root)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(out, "No CSV files in import/")
				return nil
			}

			run := runlog.NewRun("import")
			store := txnstore.NewStore(ws.root)
			var totalAdded int

			for _, f := range files {
				parsed, err := importer.ParseFile(parser, f.Path)
				if err != nil {
					return err
				}
				kept := importer.Filter(parsed, ws.cfg.Ingest)

				res, err := store.Append(kept)
				if err != nil {
					return fmt.Errorf("storing %s: %w", f.Name, err)
				}
				if err := importer.MarkProcessed(ws.root, f.Name); err != nil {
					return err
				}
				entries := []runlog.Entry{
					run.Entry("parse", f.Name, len(parsed)),
					run.Entry("append", f.Name, res.Added),
				}
				if err := runlog.Append(ws.root, entries); err != nil {
					return fmt.Errorf("writing run log: %w", err)
				}

				log.Info().
					Str("file", f.Name).
					Int("parsed", len(parsed)).
					Int("kept", len(kept)).
					Int("added", res.Added).
					Int("skipped", res.Skipped).
					Str("run_id", run.ID.String()).
					Msg("imported file")

				totalAdded += res.Added
				fmt.Fprintf(out, "%s: parsed %d, kept %d, added %d, skipped %d\n",
					f.Name, len(parsed), len(kept), res.Added, res.Skipped)
			}

			fmt.Fprintf(out, "Imported %d transactions from %d files\n", totalAdded, len(files))

			if !ws.cfg.Git.AutoCommit || !gitops.IsRepo(ws.root) {
				return nil
			}
			msg := fmt.Sprintf("import: %d transactions from %d files", totalAdded, len(files))
			hash, err := gitops.CommitAll(ws.root, msg, gitAuthor(ws.cfg))
			if errors.Is(err, gitops.ErrNothingToCommit) {
				return nil
			}
			if err != nil {
				return err
			}
			log.Info().Str("commit", hash).Str("run_id", run.ID.String()).Msg("committed import")
			fmt.Fprintf(out, "Committed %s\n", hash)
			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", ".", "path to tally workspace")
	cmd.Flags().StringVar(&format, "format", "", "CSV format (default from tally.yaml)")

	return cmd
}
