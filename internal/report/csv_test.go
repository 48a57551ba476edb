package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

func testAccount() *models.Account {
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	return &models.Account{
		ID:                  "acct-1",
		AccountNumberSuffix: "6789",
		BankName:            "First Example Bank",
		BeginningBalance:    decimal.RequireFromString("1000.00"),
		Transactions: []models.Transaction{
			{
				Date:        date,
				Amount:      decimal.RequireFromString("-250.00"),
				Description: "ACH ABC CAPITAL",
				Kind:        models.KindWithdrawal,
				CheckNumber: "1042",
			},
		},
		Metrics: models.Metrics{
			TotalDeposits:      decimal.Zero,
			TotalWithdrawals:   decimal.RequireFromString("250.00"),
			EndingBalance:      decimal.RequireFromString("750.00"),
			AvgDailyBalance:    decimal.RequireFromString("875.00"),
			MonthsOfStatements: 1,
		},
	}
}

func TestWriteWithHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, testAccount()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Account,...6789",
		"# Bank,First Example Bank",
		"# Beginning Balance,1000.00",
		"# Ending Balance,750.00",
		"Date,Description,Kind,Amount,Check Number",
		"2024-03-05,ACH ABC CAPITAL,withdrawal,-250.00,1042",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteWithoutHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: false}
	if err := w.Write(&buf, testAccount()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()

	if strings.Contains(out, "# Account") {
		t.Error("header rows present despite IncludeHeader=false")
	}
	if !strings.HasPrefix(out, "Date,Description,Kind,Amount,Check Number") {
		t.Errorf("expected column header first, got:\n%s", out)
	}
}

func TestWriteUnreconciledNote(t *testing.T) {
	acct := testAccount()
	acct.AccountNumberSuffix = ""
	acct.Unreconciled = true

	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	if err := w.Write(&buf, acct); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "# Unreconciled") {
		t.Error("unreconciled account must be marked in the report")
	}
}
