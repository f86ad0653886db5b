package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountType classifies debt accounts.
type AccountType string

const (
	AccountTypeCreditCard  AccountType = "credit_card"
	AccountTypeStudentLoan AccountType = "student_loan"
	AccountTypeAutoLoan    AccountType = "auto_loan"
	AccountTypeOther       AccountType = "other"
)

// AccountTypes lists every account type in display order.
var AccountTypes = []AccountType{
	AccountTypeCreditCard,
	AccountTypeStudentLoan,
	AccountTypeAutoLoan,
	AccountTypeOther,
}

// ParseAccountType maps a config/CSV value to an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(s); t {
	case AccountTypeCreditCard, AccountTypeStudentLoan, AccountTypeAutoLoan, AccountTypeOther:
		return t, nil
	case "":
		return AccountTypeOther, nil
	default:
		return "", fmt.Errorf("unknown account type %q", s)
	}
}

// DebtAccount is a balance owed on a card or loan.
type DebtAccount struct {
	Name           string
	Type           AccountType
	Balance        decimal.Decimal
	CreditLimit    decimal.NullDecimal // credit_card only
	InterestRate   decimal.Decimal     // annual, as a fraction: 0.21 = 21%
	MinimumPayment decimal.Decimal
}

var twelve = decimal.NewFromInt(12)

// MonthlyRate converts the APR to a monthly rate.
func (a DebtAccount) MonthlyRate() decimal.Decimal {
	return a.InterestRate.Div(twelve)
}

// MonthlyInterest estimates interest accrued this month at the current balance.
func (a DebtAccount) MonthlyInterest() decimal.Decimal {
	return a.Balance.Mul(a.MonthlyRate())
}

// Utilization returns balance/limit as a percentage. ok is false when the
// account has no usable credit limit.
func (a DebtAccount) Utilization() (pct float64, ok bool) {
	if !a.CreditLimit.Valid || !a.CreditLimit.Decimal.IsPositive() {
		return 0, false
	}
	return a.Balance.Div(a.CreditLimit.Decimal).Mul(decimal.NewFromInt(100)).InexactFloat64(), true
}
