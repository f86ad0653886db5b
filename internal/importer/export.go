package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// ExportParser parses aggregator CSV exports (one row per transaction,
// positive amounts are spending). Columns are located by header name,
// case-insensitively, so column order and extra columns do not matter.
type ExportParser struct{}

// Accepted date layouts, tried in order.
var exportDateFormats = []string{
	"2006-01-02",
	"02-01-06",
	"01/02/2006",
	"2006/01/02",
}

const defaultCategory = "Uncategorized"

type exportColumns struct {
	date, name, amount, category, description, account int
}

// Format returns the parser name.
func (p *ExportParser) Format() string { return "export" }

// Parse reads an export CSV and returns transactions. Zero-amount rows are skipped.
func (p *ExportParser) Parse(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading export CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	cols, err := locateExportColumns(records[0])
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseExportRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if txn.Amount.IsZero() {
			continue
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func locateExportColumns(header []string) (exportColumns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := idx[key]; !ok {
			idx[key] = i
		}
	}
	lookup := func(names ...string) int {
		for _, n := range names {
			if i, ok := idx[n]; ok {
				return i
			}
		}
		return -1
	}

	cols := exportColumns{
		date:        lookup("date", "original date"),
		name:        lookup("name", "merchant"),
		amount:      lookup("amount"),
		category:    lookup("category"),
		description: lookup("description"),
		account:     lookup("account name"),
	}

	var missing []string
	if cols.date < 0 {
		missing = append(missing, "date")
	}
	if cols.name < 0 {
		missing = append(missing, "name")
	}
	if cols.amount < 0 {
		missing = append(missing, "amount")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("export CSV missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseExportRow(rec []string, cols exportColumns) (model.Transaction, error) {
	field := func(i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	date, err := parseExportDate(field(cols.date))
	if err != nil {
		return model.Transaction{}, err
	}

	raw := field(cols.amount)
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", raw, err)
	}

	category := field(cols.category)
	if category == "" {
		category = defaultCategory
	}
	merchant := field(cols.name)
	desc := field(cols.description)

	return model.Transaction{
		Date:        date,
		Merchant:    merchant,
		Amount:      amount,
		Category:    category,
		Description: desc,
		AccountName: field(cols.account),
		Reference:   id.MakeReference("export", date, merchant, amount),
		Source:      "export",
	}, nil
}

func parseExportDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("parsing date: empty")
	}
	for _, layout := range exportDateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: no matching layout", s)
}
