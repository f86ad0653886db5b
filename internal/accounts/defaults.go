package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/tally/internal/model"
)

// SampleAccounts returns the starter account book written by init.
// Balances start at zero for the user to fill in.
func SampleAccounts() []model.DebtAccount {
	return []model.DebtAccount{
		{
			Name:           "Chase Credit Card",
			Type:           model.AccountTypeCreditCard,
			Balance:        decimal.Zero,
			CreditLimit:    decimal.NewNullDecimal(decimal.NewFromInt(5000)),
			InterestRate:   decimal.RequireFromString("0.21"),
			MinimumPayment: decimal.NewFromInt(25),
		},
		{
			Name:           "Student Loan (Dept Education)",
			Type:           model.AccountTypeStudentLoan,
			Balance:        decimal.Zero,
			InterestRate:   decimal.RequireFromString("0.05"),
			MinimumPayment: decimal.NewFromInt(50),
		},
		{
			Name:           "Toyota Auto Loan",
			Type:           model.AccountTypeAutoLoan,
			Balance:        decimal.Zero,
			InterestRate:   decimal.RequireFromString("0.045"),
			MinimumPayment: decimal.RequireFromString("483.09"),
		},
	}
}
