package accounts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cleared-dev/tally/internal/model"
)

// RelPath is the debt account book inside a workspace.
var RelPath = filepath.Join("accounts", "debts.csv")

// ErrNoAccounts is returned by Load when the workspace has no debts.csv.
var ErrNoAccounts = errors.New("no debt accounts file")

// Service provides in-memory lookup over the debt account book.
type Service struct {
	accounts []model.DebtAccount
	byName   map[string]model.DebtAccount
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.DebtAccount) *Service {
	byName := make(map[string]model.DebtAccount, len(accounts))
	for _, a := range accounts {
		byName[a.Name] = a
	}
	return &Service{accounts: accounts, byName: byName}
}

// Load reads accounts/debts.csv from a repo root and returns a Service.
func Load(repoRoot string) (*Service, error) {
	path := filepath.Join(repoRoot, RelPath)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoAccounts, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening debt accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading debt accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts in file order.
func (s *Service) All() []model.DebtAccount {
	return s.accounts
}

// Get returns an account by name.
func (s *Service) Get(name string) (model.DebtAccount, bool) {
	a, ok := s.byName[name]
	return a, ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.DebtAccount {
	var result []model.DebtAccount
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Outstanding returns the accounts that still carry a balance.
func (s *Service) Outstanding() []model.DebtAccount {
	var result []model.DebtAccount
	for _, a := range s.accounts {
		if a.Balance.IsPositive() {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the account book to accounts/debts.csv.
func (s *Service) Save(repoRoot string) error {
	path := filepath.Join(repoRoot, RelPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating debt accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing debt accounts: %w", err)
	}
	return nil
}
