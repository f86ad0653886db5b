package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a normalized spending record. Amount is the positive
// spending magnitude; ingestion drops income and transfers before storage.
type Transaction struct {
	ID          string // "YYYY-MM-NNN", assigned by the store
	Date        time.Time
	Merchant    string
	Amount      decimal.Decimal
	Category    string
	Description string
	AccountName string
	Reference   string // source reference, used for de-duplication
	Source      string // parser format that produced the row
}

// IsExpense reports whether the transaction counts as spending.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsPositive()
}

// DaysBetween returns whole calendar days from a to b, ignoring clock time.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
