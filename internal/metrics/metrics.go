// Package metrics derives an account's risk and summary figures from its
// merged ledger by simulating the running daily balance across the
// statement period. Risk scoring depends on when the account was overdrawn,
// not just the net total, so the walk visits every calendar day.
package metrics

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// NSF vocabulary matched case-insensitively against description and kind.
// A conservative lower bound: wording outside this set is missed.
var nsfKeywords = []string{
	"NSF",
	"NON-SUFFICIENT",
	"NONSUFFICIENT",
	"INSUFFICIENT FUNDS",
	"RETURNED ITEM",
	"RETURN ITEM",
	"OVERDRAFT FEE",
	"OD FEE",
	"UNPAID ITEM",
}

// Compute derives Metrics for one transaction set.
//
// period may be nil, in which case the span between the earliest and latest
// transaction is used. months overrides the months-of-statements figure
// when positive (the merge step supplies the sum of declared statement
// periods); pass 0 to estimate it from the period length.
func Compute(txns []models.Transaction, beginningBalance decimal.Decimal, period *models.DateRange, months int) models.Metrics {
	m := models.Metrics{
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
		AvgDailyBalance:  beginningBalance,
		AvgDailyDeposit:  decimal.Zero,
	}

	// Partition strictly by amount sign; zero-amount rows count toward
	// neither. Withdrawals accumulate as a positive magnitude.
	for _, t := range txns {
		switch {
		case t.IsDeposit():
			m.TotalDeposits = m.TotalDeposits.Add(t.Amount)
		case t.IsWithdrawal():
			m.TotalWithdrawals = m.TotalWithdrawals.Add(t.Amount.Neg())
		}
		if isNSF(t) {
			m.NSFCount++
		}
	}

	// Ending balance stays internally consistent with the transaction set
	// actually used, never a bank-reported figure.
	m.EndingBalance = beginningBalance.Add(m.TotalDeposits).Sub(m.TotalWithdrawals)

	if period == nil {
		period = models.TransactionSpan(txns)
	}

	if len(txns) == 0 || period == nil {
		m.MonthsOfStatements = months
		if m.MonthsOfStatements < 1 {
			m.MonthsOfStatements = 1
		}
		return m
	}

	days := period.Days()
	daysDec := decimal.NewFromInt(int64(days))

	// Day-by-day balance simulation over the inclusive period.
	netByDay := make(map[string]decimal.Decimal, len(txns))
	for _, t := range txns {
		k := models.Day(t.Date).Format("2006-01-02")
		netByDay[k] = netByDay[k].Add(t.Amount)
	}

	balance := beginningBalance
	closingSum := decimal.Zero
	for d := period.Start; !d.After(period.End); d = d.AddDate(0, 0, 1) {
		if net, ok := netByDay[d.Format("2006-01-02")]; ok {
			balance = balance.Add(net)
		}
		closingSum = closingSum.Add(balance)
		if balance.IsNegative() {
			m.NegativeBalanceDays++
		}
	}

	m.AvgDailyBalance = closingSum.Div(daysDec)
	m.AvgDailyDeposit = m.TotalDeposits.Div(daysDec)

	if months > 0 {
		m.MonthsOfStatements = months
	} else {
		m.MonthsOfStatements = estimateMonths(days)
	}
	return m
}

// estimateMonths is round(days/30) floored at 1.
func estimateMonths(days int) int {
	months := (days + 15) / 30
	if months < 1 {
		months = 1
	}
	return months
}

func isNSF(t models.Transaction) bool {
	haystack := strings.ToUpper(t.Description + " " + string(t.Kind))
	for _, kw := range nsfKeywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
