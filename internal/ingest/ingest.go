// Package ingest is the input boundary with the document-extraction service.
// The extractor hands over per-statement rows of text fields; ingest turns
// them into normalized model types and reports, rather than hides, every row
// it cannot parse.
package ingest

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/normalize"
)

// RawTransaction is one extracted statement row as delivered by the
// extraction service. All fields are text; nothing is trusted yet.
type RawTransaction struct {
	DateText    string `json:"date"`
	TypeText    string `json:"type"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CheckNumber string `json:"checkNumber,omitempty"`
}

// RawStatement is one uploaded document's extraction result.
type RawStatement struct {
	SourceFile       string           `json:"sourceFile"`
	AccountNumber    string           `json:"accountNumber"`
	BankName         string           `json:"bankName,omitempty"`
	AccountName      string           `json:"accountName,omitempty"`
	BeginningBalance string           `json:"beginningBalance,omitempty"`
	Period           string           `json:"period,omitempty"`
	Transactions     []RawTransaction `json:"transactions"`
}

// periodSeparator joins the two day-first dates of a declared statement
// period, e.g. "01/03/2024 through 31/03/2024".
const periodSeparator = "through"

// ParsePeriod parses the extractor's statement-period string. An empty
// string is tolerated and yields a nil range (callers fall back to the
// transaction date span).
func ParsePeriod(s string) (*models.DateRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, periodSeparator)
	if len(parts) != 2 {
		return nil, fmt.Errorf("statement period %q: expected two dates joined by %q", s, periodSeparator)
	}
	start, err := normalize.ParseDate(parts[0])
	if err != nil {
		return nil, fmt.Errorf("statement period start: %w", err)
	}
	end, err := normalize.ParseDate(parts[1])
	if err != nil {
		return nil, fmt.Errorf("statement period end: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("statement period %q: end precedes start", s)
	}
	return &models.DateRange{Start: start, End: end}, nil
}

// ParseStatement converts one raw extraction result into a Statement.
// Malformed rows are skipped and returned as MalformedTransactionError
// values; the caller decides whether to drop or surface them. A statement
// whose every row fails still comes back with an empty ledger so it stays
// merge-eligible.
func ParseStatement(raw RawStatement) (models.Statement, []error) {
	st := models.Statement{
		ID:            uuid.NewString(),
		SourceFile:    raw.SourceFile,
		AccountNumber: raw.AccountNumber,
		BankName:      raw.BankName,
		AccountName:   raw.AccountName,
		Transactions:  []models.Transaction{},
	}

	var issues []error

	if raw.BeginningBalance != "" {
		bal, err := normalize.ParseAmount(raw.BeginningBalance)
		if err != nil {
			// Zero is substituted, but the coercion is recorded:
			// underwriting correctness depends on data-quality transparency.
			issues = append(issues, &models.MalformedTransactionError{
				StatementID: st.ID,
				Row:         -1,
				Field:       "beginningBalance",
				Value:       raw.BeginningBalance,
				Err:         err,
			})
			bal = decimal.Zero
		}
		st.BeginningBalance = bal
	}

	if period, err := ParsePeriod(raw.Period); err != nil {
		issues = append(issues, &models.MalformedTransactionError{
			StatementID: st.ID,
			Row:         -1,
			Field:       "period",
			Value:       raw.Period,
			Err:         err,
		})
	} else if period != nil {
		start, end := period.Start, period.End
		st.PeriodStart, st.PeriodEnd = &start, &end
	}

	for i, row := range raw.Transactions {
		txn, err := ParseTransaction(st.ID, i, row)
		if err != nil {
			issues = append(issues, err)
			continue
		}
		st.Transactions = append(st.Transactions, txn)
	}

	return st, issues
}

// ParseTransaction normalizes one raw row. Date and amount must parse; the
// description may be empty.
func ParseTransaction(statementID string, row int, raw RawTransaction) (models.Transaction, error) {
	date, err := normalize.ParseDate(raw.DateText)
	if err != nil {
		return models.Transaction{}, &models.MalformedTransactionError{
			StatementID: statementID,
			Row:         row,
			Field:       "date",
			Value:       raw.DateText,
			Err:         err,
		}
	}
	amount, err := normalize.ParseAmount(raw.Amount)
	if err != nil {
		return models.Transaction{}, &models.MalformedTransactionError{
			StatementID: statementID,
			Row:         row,
			Field:       "amount",
			Value:       raw.Amount,
			Err:         err,
		}
	}

	return models.Transaction{
		Date:        date,
		Amount:      amount,
		Description: strings.TrimSpace(raw.Description),
		Kind:        normalize.KindFromText(raw.TypeText),
		CheckNumber: strings.TrimSpace(raw.CheckNumber),
	}, nil
}
