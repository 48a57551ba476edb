package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement holds one uploaded document's extraction result.
type Statement struct {
	ID               string          `json:"id"`
	SourceFile       string          `json:"sourceFile"`
	AccountNumber    string          `json:"accountNumber"`
	BankName         string          `json:"bankName,omitempty"`
	AccountName      string          `json:"accountName,omitempty"`
	BeginningBalance decimal.Decimal `json:"beginningBalance"`
	// Declared statement period; nil when the extractor could not find one,
	// in which case the period is inferred from the transaction date span.
	PeriodStart  *time.Time    `json:"periodStart,omitempty"`
	PeriodEnd    *time.Time    `json:"periodEnd,omitempty"`
	Transactions []Transaction `json:"transactions"`
}

// AccountSuffix returns the last four digits of the statement's account
// number, or "" when no usable account number was extracted. The suffix is
// the merge key: an empty suffix is a zero-confidence key and never merges.
func (s Statement) AccountSuffix() string {
	digits := make([]byte, 0, len(s.AccountNumber))
	for i := 0; i < len(s.AccountNumber); i++ {
		c := s.AccountNumber[i]
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) < 4 {
		return ""
	}
	return string(digits[len(digits)-4:])
}

// Period returns the declared statement period, falling back to the span of
// the statement's transactions. Returns nil when neither is available.
func (s Statement) Period() *DateRange {
	if s.PeriodStart != nil && s.PeriodEnd != nil {
		return &DateRange{Start: Day(*s.PeriodStart), End: Day(*s.PeriodEnd)}
	}
	return TransactionSpan(s.Transactions)
}

// PeriodMonths returns the statement's own declared period length in months,
// estimated as round(days/30) and floored at 1.
func (s Statement) PeriodMonths() int {
	p := s.Period()
	if p == nil {
		return 1
	}
	months := (p.Days() + 15) / 30
	if months < 1 {
		months = 1
	}
	return months
}

// EarliestDate returns the statement's first transaction date, falling back
// to the declared period start for a statement with no transactions.
func (s Statement) EarliestDate() (time.Time, bool) {
	if span := TransactionSpan(s.Transactions); span != nil {
		return span.Start, true
	}
	if s.PeriodStart != nil {
		return Day(*s.PeriodStart), true
	}
	return time.Time{}, false
}
