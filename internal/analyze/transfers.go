// Package analyze holds the cross-account signal detectors: internal
// transfer matching between an applicant's accounts, and recurring
// obligation (cash-advance position) detection from withdrawal patterns.
// Both are unsupervised heuristics producing advisory signals for a human
// underwriter, never committed ledger adjustments.
package analyze

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Matching tolerances for transfer detection. Transfers rarely land the
// same day and OCR amounts can be off by a cent.
var (
	transferAmountTolerance   = decimal.NewFromFloat(0.01)
	transferDateToleranceDays = 3
)

// DetectTransfers finds probable movements of money between the applicant's
// own accounts. It must run only after every account has completed
// extraction: a partial run would mislabel a transfer's counterpart account
// as missing rather than "not a transfer".
//
// Matching is deliberately many-to-many: a withdrawal may match more than
// one candidate deposit when amounts and dates coincide. The duplicated
// signal goes to human review instead of a guessed one-to-one pairing.
func DetectTransfers(accounts []models.Account) []models.Transfer {
	var transfers []models.Transfer

	for _, from := range accounts {
		for _, to := range accounts {
			if from.ID == to.ID {
				continue
			}
			for _, w := range from.Transactions {
				if !w.IsWithdrawal() {
					continue
				}
				for _, d := range to.Transactions {
					if !d.IsDeposit() {
						continue
					}
					if !amountsMatch(w.Amount.Neg(), d.Amount) {
						continue
					}
					if !datesMatch(w.Date, d.Date) {
						continue
					}
					transfers = append(transfers, models.Transfer{
						FromAccountID: from.ID,
						ToAccountID:   to.ID,
						Amount:        w.Amount.Neg(),
						Date:          models.Day(w.Date),
						Note: fmt.Sprintf("withdrawal %s on %s matches deposit in account ...%s",
							w.Amount.Neg().StringFixed(2),
							models.Day(w.Date).Format("2006-01-02"),
							to.AccountNumberSuffix),
					})
				}
			}
		}
	}
	return transfers
}

// AttachTransfers annotates each source account with the transfers detected
// out of it. Annotations are advisory metadata; Metrics totals remain raw.
func AttachTransfers(accounts []models.Account, transfers []models.Transfer) {
	byFrom := make(map[string][]models.Transfer)
	for _, tr := range transfers {
		byFrom[tr.FromAccountID] = append(byFrom[tr.FromAccountID], tr)
	}
	for i := range accounts {
		accounts[i].InternalTransfers = byFrom[accounts[i].ID]
	}
}

func amountsMatch(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(transferAmountTolerance)
}

func datesMatch(a, b time.Time) bool {
	diff := models.DaysBetween(a, b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= transferDateToleranceDays
}
