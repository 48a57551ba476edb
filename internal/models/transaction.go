package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is a coarse classifier for a ledger entry. It is advisory
// only: the sign of Amount is authoritative for financial totals.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindCheck      TransactionKind = "check"
	KindOther      TransactionKind = "other"
)

// Transaction represents a single bank statement ledger entry.
//
// Amount is signed: positive is a credit/deposit, negative is a
// debit/withdrawal. Zero-amount rows are preserved but excluded from
// deposit/withdrawal aggregates.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Kind        TransactionKind `json:"kind"`
	CheckNumber string          `json:"checkNumber,omitempty"`
}

// Key returns the deduplication identity of the transaction. Within one
// account's merged ledger, transactions are unique under (date, amount,
// description); duplicates are removed, never summed.
func (t Transaction) Key() string {
	return t.Date.Format("2006-01-02") + "|" + t.Amount.String() + "|" + strings.TrimSpace(t.Description)
}

// IsDeposit reports whether the transaction counts toward deposit totals.
func (t Transaction) IsDeposit() bool {
	return t.Amount.IsPositive()
}

// IsWithdrawal reports whether the transaction counts toward withdrawal
// totals.
func (t Transaction) IsWithdrawal() bool {
	return t.Amount.IsNegative()
}

// Day returns the date truncated to midnight UTC. Statement dates carry no
// time-of-day semantics.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day difference b-a for midnight-normalized
// dates.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// DateRange is an inclusive calendar date span.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the number of calendar days in the range, inclusive of both
// endpoints.
func (r DateRange) Days() int {
	return DaysBetween(r.Start, r.End) + 1
}

// TransactionSpan returns the date range covered by the earliest and latest
// transaction, or nil for an empty set.
func TransactionSpan(txns []Transaction) *DateRange {
	if len(txns) == 0 {
		return nil
	}
	min, max := Day(txns[0].Date), Day(txns[0].Date)
	for _, t := range txns[1:] {
		d := Day(t.Date)
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return &DateRange{Start: min, End: max}
}
