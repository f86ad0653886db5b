package accounts

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundTrip(t *testing.T) {
	accounts := []model.DebtAccount{
		{
			Name:           "Chase Credit Card",
			Type:           model.AccountTypeCreditCard,
			Balance:        dec("2400"),
			CreditLimit:    decimal.NewNullDecimal(dec("5000")),
			InterestRate:   dec("0.21"),
			MinimumPayment: dec("25"),
		},
		{
			Name:           "Student Loan",
			Type:           model.AccountTypeStudentLoan,
			Balance:        dec("18250.50"),
			InterestRate:   dec("0.05"),
			MinimumPayment: dec("50"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, accounts))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i := range accounts {
		assert.Equal(t, accounts[i].Name, got[i].Name)
		assert.Equal(t, accounts[i].Type, got[i].Type)
		assert.True(t, accounts[i].Balance.Equal(got[i].Balance))
		assert.Equal(t, accounts[i].CreditLimit.Valid, got[i].CreditLimit.Valid)
		assert.True(t, accounts[i].InterestRate.Equal(got[i].InterestRate))
		assert.True(t, accounts[i].MinimumPayment.Equal(got[i].MinimumPayment))
	}
	assert.True(t, got[0].CreditLimit.Decimal.Equal(dec("5000")))
}

func TestMarshalAccount_NoLimit(t *testing.T) {
	row := MarshalAccount(model.DebtAccount{
		Name:           "Toyota Auto Loan",
		Type:           model.AccountTypeAutoLoan,
		Balance:        dec("9000"),
		InterestRate:   dec("0.045"),
		MinimumPayment: dec("483.09"),
	})
	assert.Equal(t, []string{"Toyota Auto Loan", "auto_loan", "9000.00", "", "0.045", "483.09"}, row)
}

func TestUnmarshalAccount_EmptyTypeIsOther(t *testing.T) {
	acct, err := UnmarshalAccount([]string{"Medical", "", "300", "", "0", "20"})
	require.NoError(t, err)
	assert.Equal(t, model.AccountTypeOther, acct.Type)
	assert.False(t, acct.CreditLimit.Valid)
}

func TestUnmarshalAccount_Errors(t *testing.T) {
	tests := []struct {
		name   string
		record []string
		want   string
	}{
		{"empty name", []string{" ", "credit_card", "1", "", "0.2", "1"}, "empty account name"},
		{"bad type", []string{"Card", "mortgage", "1", "", "0.2", "1"}, "unknown account type"},
		{"bad balance", []string{"Card", "credit_card", "x", "", "0.2", "1"}, "parsing balance"},
		{"bad limit", []string{"Card", "credit_card", "1", "x", "0.2", "1"}, "parsing credit_limit"},
		{"negative rate", []string{"Card", "credit_card", "1", "", "-0.2", "1"}, "interest_rate -0.2 is negative"},
		{"bad minimum", []string{"Card", "credit_card", "1", "", "0.2", "?"}, "parsing minimum_payment"},
		{"field count", []string{"Card"}, "expected 6 fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalAccount(tt.record)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadAccounts_RowNumber(t *testing.T) {
	data := Header + "\nCard,credit_card,1,,0.2,1\nLoan,payday,1,,0.2,1\n"
	_, err := ReadAccounts(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestReadTestdata(t *testing.T) {
	f, err := os.Open("../../testdata/debts.csv")
	require.NoError(t, err)
	defer f.Close()

	accounts, err := ReadAccounts(f)
	require.NoError(t, err)
	require.Len(t, accounts, 4)
	assert.Equal(t, "Capital One", accounts[1].Name)
	assert.True(t, accounts[1].InterestRate.Equal(dec("0.2499")))
	assert.False(t, accounts[2].CreditLimit.Valid)
}

func TestSampleAccountsRoundTrip(t *testing.T) {
	sample := SampleAccounts()
	require.Len(t, sample, 3)

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, sample))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Toyota Auto Loan", got[2].Name)
	assert.True(t, got[2].MinimumPayment.Equal(dec("483.09")))
	assert.True(t, got[0].CreditLimit.Valid)
}
