package txnstore

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// DataDir is the workspace subdirectory holding monthly transaction files.
const DataDir = "data"

const fileName = "transactions.csv"

// Store reads and appends month-partitioned transaction files under
// <repoRoot>/data/YYYY/MM/transactions.csv.
type Store struct {
	repoRoot string
}

// NewStore creates a Store rooted at repoRoot.
func NewStore(repoRoot string) *Store {
	return &Store{repoRoot: repoRoot}
}

// AppendResult reports what Append did.
type AppendResult struct {
	Added   int
	Skipped int // already stored
}

// Append assigns IDs to txns, drops rows already present in their month,
// validates each touched month and appends the new rows.
func (s *Store) Append(txns []model.Transaction) (AppendResult, error) {
	var res AppendResult

	byMonth := make(map[monthKey][]model.Transaction)
	for _, txn := range txns {
		k := monthOf(txn.Date)
		byMonth[k] = append(byMonth[k], txn)
	}

	keys := make([]monthKey, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b monthKey) int {
		return cmp.Or(cmp.Compare(a.year, b.year), cmp.Compare(a.month, b.month))
	})

	for _, k := range keys {
		added, skipped, err := s.appendMonth(k, byMonth[k])
		if err != nil {
			return res, err
		}
		res.Added += added
		res.Skipped += skipped
	}
	return res, nil
}

func (s *Store) appendMonth(k monthKey, incoming []model.Transaction) (added, skipped int, err error) {
	existing, err := s.ReadMonth(k.year, k.month)
	if err != nil {
		return 0, 0, err
	}

	stored := make(map[string]bool, len(existing))
	for _, txn := range existing {
		stored[dedupKey(txn)] = true
	}

	seq := nextSeq(existing)
	var newTxns []model.Transaction
	for _, txn := range incoming {
		if stored[dedupKey(txn)] {
			skipped++
			continue
		}
		txn.ID = id.FormatTxnID(k.year, k.month, seq)
		seq++
		newTxns = append(newTxns, txn)
	}
	if len(newTxns) == 0 {
		return 0, skipped, nil
	}

	all := append(existing, newTxns...)
	if verrs := ValidateTransactions(all, k.year, k.month); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return 0, 0, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	path := s.monthPath(k.year, k.month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, 0, fmt.Errorf("creating data dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return 0, 0, fmt.Errorf("opening transactions: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return 0, 0, fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendTransactions(f, newTxns); err != nil {
		return 0, 0, fmt.Errorf("appending transactions: %w", err)
	}
	return len(newTxns), skipped, nil
}

// ReadMonth reads all transactions for a given year/month.
func (s *Store) ReadMonth(year, month int) ([]model.Transaction, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening transactions %s: %w", path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading transactions %s: %w", path, err)
	}
	return txns, nil
}

// Months lists the stored months in chronological order as "YYYY-MM".
func (s *Store) Months() ([]string, error) {
	root := filepath.Join(s.repoRoot, DataDir)
	years, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading data dir: %w", err)
	}

	var months []string
	for _, y := range years {
		year, err := strconv.Atoi(y.Name())
		if !y.IsDir() || err != nil {
			continue
		}
		entries, err := os.ReadDir(filepath.Join(root, y.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading data dir %s: %w", y.Name(), err)
		}
		for _, m := range entries {
			month, err := strconv.Atoi(m.Name())
			if !m.IsDir() || err != nil || month < 1 || month > 12 {
				continue
			}
			if _, err := os.Stat(s.monthPath(year, month)); err != nil {
				continue
			}
			months = append(months, fmt.Sprintf("%04d-%02d", year, month))
		}
	}
	slices.Sort(months)
	return months, nil
}

// ReadAll reads every stored month in chronological order.
func (s *Store) ReadAll() ([]model.Transaction, error) {
	months, err := s.Months()
	if err != nil {
		return nil, err
	}

	var all []model.Transaction
	for _, ym := range months {
		var year, month int
		if _, err := fmt.Sscanf(ym, "%04d-%02d", &year, &month); err != nil {
			return nil, fmt.Errorf("parsing month %q: %w", ym, err)
		}
		txns, err := s.ReadMonth(year, month)
		if err != nil {
			return nil, err
		}
		all = append(all, txns...)
	}
	return all, nil
}

func (s *Store) monthPath(year, month int) string {
	return filepath.Join(s.repoRoot, DataDir, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), fileName)
}

type monthKey struct{ year, month int }

func monthOf(t time.Time) monthKey {
	return monthKey{year: t.Year(), month: int(t.Month())}
}

func nextSeq(txns []model.Transaction) int {
	maxSeq := 0
	for _, txn := range txns {
		_, _, seq, err := id.ParseTxnID(txn.ID)
		if err != nil {
			continue
		}
		maxSeq = max(maxSeq, seq)
	}
	return maxSeq + 1
}

func dedupKey(txn model.Transaction) string {
	if txn.Reference != "" {
		return txn.Reference
	}
	return txn.Date.Format(dateFormat) + "|" + txn.Merchant + "|" + txn.Amount.StringFixed(2)
}
