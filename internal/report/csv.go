// Package report renders merged account ledgers for download by the review
// UI.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// CSVWriter writes a merged account's ledger and metrics to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// Write writes the account in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, acct *models.Account) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	// Write metadata as comment rows ahead of the ledger
	if w.IncludeHeader {
		if acct.AccountNumberSuffix != "" {
			writer.Write([]string{"# Account", "..." + acct.AccountNumberSuffix})
		}
		if acct.Unreconciled {
			writer.Write([]string{"# Unreconciled", "statement had no account number"})
		}
		if acct.BankName != "" {
			writer.Write([]string{"# Bank", acct.BankName})
		}
		if acct.AccountName != "" {
			writer.Write([]string{"# Account Name", acct.AccountName})
		}
		writer.Write([]string{"# Beginning Balance", acct.BeginningBalance.StringFixed(2)})
		writer.Write([]string{"# Ending Balance", acct.Metrics.EndingBalance.StringFixed(2)})
		writer.Write([]string{"# Total Deposits", acct.Metrics.TotalDeposits.StringFixed(2)})
		writer.Write([]string{"# Total Withdrawals", acct.Metrics.TotalWithdrawals.StringFixed(2)})
		writer.Write([]string{"# Avg Daily Balance", acct.Metrics.AvgDailyBalance.StringFixed(2)})
		writer.Write([]string{"# NSF Count", strconv.Itoa(acct.Metrics.NSFCount)})
		writer.Write([]string{"# Negative Balance Days", strconv.Itoa(acct.Metrics.NegativeBalanceDays)})
		writer.Write([]string{"# Months of Statements", strconv.Itoa(acct.Metrics.MonthsOfStatements)})
	}

	header := []string{"Date", "Description", "Kind", "Amount", "Check Number"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range acct.Transactions {
		row := []string{
			txn.Date.Format("2006-01-02"),
			txn.Description,
			string(txn.Kind),
			txn.Amount.StringFixed(2),
			txn.CheckNumber,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}
