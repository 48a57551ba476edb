package models

import (
	"github.com/shopspring/decimal"
)

// Account is the unit of analysis after merging: every statement sharing the
// same account-number suffix collapses into one Account with a deduplicated,
// chronologically ordered ledger.
type Account struct {
	ID                  string          `json:"id"`
	AccountNumberSuffix string          `json:"accountNumberSuffix"`
	BankName            string          `json:"bankName,omitempty"`
	AccountName         string          `json:"accountName,omitempty"`
	// Unreconciled marks an account built from a statement with no usable
	// account number. It is reported for human review, never merged.
	Unreconciled     bool            `json:"unreconciled,omitempty"`
	BeginningBalance decimal.Decimal `json:"beginningBalance"`
	// MonthsOfStatements is the sum of each contributing statement's own
	// declared period length, not a span derived from the merged ledger.
	MonthsOfStatements int           `json:"monthsOfStatements"`
	Period             *DateRange    `json:"period,omitempty"`
	Statements         []Statement   `json:"statements"`
	Transactions       []Transaction `json:"transactions"`
	Metrics            Metrics       `json:"metrics"`
	InternalTransfers  []Transfer    `json:"internalTransfers,omitempty"`
}

// Metrics holds the derived risk and summary figures for one account.
// Metrics are immutable once computed from a given transaction set and are
// recomputed whenever the underlying set changes, never mutated in place.
type Metrics struct {
	TotalDeposits       decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals    decimal.Decimal `json:"totalWithdrawals"`
	EndingBalance       decimal.Decimal `json:"endingBalance"`
	AvgDailyBalance     decimal.Decimal `json:"avgDailyBalance"`
	AvgDailyDeposit     decimal.Decimal `json:"avgDailyDeposit"`
	NSFCount            int             `json:"nsfCount"`
	NegativeBalanceDays int             `json:"negativeBalanceDays"`
	MonthsOfStatements  int             `json:"monthsOfStatements"`
}
