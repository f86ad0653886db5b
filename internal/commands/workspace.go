package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cleared-dev/tally/internal/accounts"
	"github.com/cleared-dev/tally/internal/config"
	"github.com/cleared-dev/tally/internal/gitops"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/txnstore"
)

const asOfLayout = "2006-01-02"

// workspace is an initialized tally directory.
type workspace struct {
	root string
	cfg  *config.Config
}

func openWorkspace(repo string) (*workspace, error) {
	root, err := filepath.Abs(repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfgPath := filepath.Join(root, config.FileName)
	if _, err := os.Stat(cfgPath); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s is not a tally workspace (run tally init)", root)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	return &workspace{root: root, cfg: cfg}, nil
}

func (w *workspace) transactions() ([]model.Transaction, error) {
	txns, err := txnstore.NewStore(w.root).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}
	return txns, nil
}

// accountBook loads accounts/debts.csv, empty when the file is missing.
func (w *workspace) accountBook() (*accounts.Service, error) {
	svc, err := accounts.Load(w.root)
	if errors.Is(err, accounts.ErrNoAccounts) {
		return accounts.NewService(nil), nil
	}
	return svc, err
}

// debtAccounts returns the accounts that still carry a balance. Paid-off
// accounts stay in the book but never enter a payoff plan.
func (w *workspace) debtAccounts() ([]model.DebtAccount, error) {
	svc, err := w.accountBook()
	if err != nil {
		return nil, err
	}
	return svc.Outstanding(), nil
}

func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(asOfLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

func gitAuthor(cfg *config.Config) gitops.Author {
	return gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
}
