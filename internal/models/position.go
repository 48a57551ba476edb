package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer is a probable movement of money between two of the applicant's
// own accounts. It is a probabilistic inference, re-derived whenever account
// data changes, and is never subtracted from Metrics totals automatically.
type Transfer struct {
	FromAccountID string          `json:"fromAccountId"`
	ToAccountID   string          `json:"toAccountId"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	Note          string          `json:"note,omitempty"`
}

// Frequency classifies how often a recurring obligation withdraws.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Position is a recurring debt obligation (e.g., a merchant cash advance
// repayment) inferred from withdrawal patterns alone. Positions are
// recomputed from scratch on every analysis run: new transactions can change
// the classification of an existing cluster.
type Position struct {
	Counterparty  string          `json:"counterparty"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	Frequency     Frequency       `json:"frequency"`
	// EstimatedBalance is a rough proxy for remaining principal; no
	// amortization schedule is known.
	EstimatedBalance decimal.Decimal `json:"estimatedBalance"`
	// Confidence is a bounded [0,1] heuristic estimate, not a calibrated
	// probability.
	Confidence  float64 `json:"confidence"`
	Occurrences int     `json:"occurrences"`
}
