package txnstore

import (
	"fmt"
	"strings"

	"github.com/cleared-dev/tally/internal/id"
	"github.com/cleared-dev/tally/internal/model"
)

// Rule names a stored-month invariant.
type Rule string

const (
	RulePositiveAmount Rule = "positive-amount"
	RuleCents          Rule = "cents"
	RuleDateInMonth    Rule = "date-in-month"
	RuleMerchant       Rule = "merchant"
	RuleSequence       Rule = "sequence"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Rule        Rule
	TxnID       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.TxnID, e.Description)
}

// ValidateTransactions checks one month's worth of stored transactions.
func ValidateTransactions(txns []model.Transaction, year, month int) []ValidationError {
	var errs []ValidationError

	for _, txn := range txns {
		if !txn.Amount.IsPositive() {
			errs = append(errs, ValidationError{
				Rule:        RulePositiveAmount,
				TxnID:       txn.ID,
				Description: fmt.Sprintf("amount %s is not positive", txn.Amount),
			})
		}

		if !txn.Amount.Equal(txn.Amount.Round(2)) {
			errs = append(errs, ValidationError{
				Rule:        RuleCents,
				TxnID:       txn.ID,
				Description: fmt.Sprintf("amount %s has more than 2 decimal places", txn.Amount),
			})
		}

		if txn.Date.Year() != year || int(txn.Date.Month()) != month {
			errs = append(errs, ValidationError{
				Rule:        RuleDateInMonth,
				TxnID:       txn.ID,
				Description: fmt.Sprintf("date %s not in %04d-%02d", txn.Date.Format(dateFormat), year, month),
			})
		}

		if strings.TrimSpace(txn.Merchant) == "" {
			errs = append(errs, ValidationError{
				Rule:        RuleMerchant,
				TxnID:       txn.ID,
				Description: "merchant is empty",
			})
		}
	}

	// IDs must be unique and contiguous 1..N.
	seqSeen := make(map[int]bool)
	for _, txn := range txns {
		_, _, seq, err := id.ParseTxnID(txn.ID)
		if err != nil {
			errs = append(errs, ValidationError{
				Rule:        RuleSequence,
				TxnID:       txn.ID,
				Description: fmt.Sprintf("invalid transaction ID: %v", err),
			})
			continue
		}
		if seqSeen[seq] {
			errs = append(errs, ValidationError{
				Rule:        RuleSequence,
				TxnID:       txn.ID,
				Description: fmt.Sprintf("duplicate sequence %d", seq),
			})
		}
		seqSeen[seq] = true
	}
	for i := 1; i <= len(seqSeen); i++ {
		if !seqSeen[i] {
			errs = append(errs, ValidationError{
				Rule:        RuleSequence,
				TxnID:       fmt.Sprintf("seq %d", i),
				Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seqSeen)),
			})
		}
	}

	return errs
}
