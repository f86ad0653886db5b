package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// Header is the CSV header for debts.csv.
const Header = "name,type,balance,credit_limit,interest_rate,minimum_payment"

const (
	numFields  = 6
	colName    = 0
	colType    = 1
	colBalance = 2
	colLimit   = 3
	colRate    = 4
	colMinimum = 5
)

// ReadAccounts reads debts.csv.
func ReadAccounts(r io.Reader) ([]model.DebtAccount, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading debts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.DebtAccount
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes debts.csv.
func WriteAccounts(w io.Writer, accounts []model.DebtAccount) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts a DebtAccount to a CSV row.
func MarshalAccount(acct model.DebtAccount) []string {
	row := make([]string, numFields)
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colBalance] = acct.Balance.StringFixed(2)
	if acct.CreditLimit.Valid {
		row[colLimit] = acct.CreditLimit.Decimal.StringFixed(2)
	}
	row[colRate] = acct.InterestRate.String()
	row[colMinimum] = acct.MinimumPayment.StringFixed(2)
	return row
}

// UnmarshalAccount converts a CSV row to a DebtAccount.
func UnmarshalAccount(record []string) (model.DebtAccount, error) {
	if len(record) != numFields {
		return model.DebtAccount{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	name := strings.TrimSpace(record[colName])
	if name == "" {
		return model.DebtAccount{}, fmt.Errorf("empty account name")
	}

	typ, err := model.ParseAccountType(record[colType])
	if err != nil {
		return model.DebtAccount{}, err
	}

	balance, err := parseAmount("balance", record[colBalance])
	if err != nil {
		return model.DebtAccount{}, err
	}

	var limit decimal.NullDecimal
	if record[colLimit] != "" {
		v, err := parseAmount("credit_limit", record[colLimit])
		if err != nil {
			return model.DebtAccount{}, err
		}
		limit = decimal.NewNullDecimal(v)
	}

	rate, err := parseAmount("interest_rate", record[colRate])
	if err != nil {
		return model.DebtAccount{}, err
	}

	minimum, err := parseAmount("minimum_payment", record[colMinimum])
	if err != nil {
		return model.DebtAccount{}, err
	}

	return model.DebtAccount{
		Name:           name,
		Type:           typ,
		Balance:        balance,
		CreditLimit:    limit,
		InterestRate:   rate,
		MinimumPayment: minimum,
	}, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s %s is negative", field, s)
	}
	return v, nil
}
