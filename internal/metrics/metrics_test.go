package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d.UTC()
}

func txn(date, amount, desc string) models.Transaction {
	return models.Transaction{
		Date:        day(date),
		Amount:      decimal.RequireFromString(amount),
		Description: desc,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEndingBalanceIdentity(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-02", "1000.00", "CUSTOMER DEPOSIT"),
		txn("2024-01-03", "-300.25", "SUPPLIES"),
		txn("2024-01-04", "0.00", "MEMO ROW"),
		txn("2024-01-05", "-99.75", "UTILITIES"),
	}
	begin := dec("500.00")

	m := Compute(txns, begin, nil, 0)

	want := begin.Add(m.TotalDeposits).Sub(m.TotalWithdrawals)
	if !m.EndingBalance.Equal(want) {
		t.Errorf("ending balance %s != begin + deposits - withdrawals = %s", m.EndingBalance, want)
	}
	if !m.TotalDeposits.Equal(dec("1000.00")) {
		t.Errorf("deposits: got %s, want 1000", m.TotalDeposits)
	}
	if !m.TotalWithdrawals.Equal(dec("400.00")) {
		t.Errorf("withdrawals: got %s, want 400", m.TotalWithdrawals)
	}
	if !m.EndingBalance.Equal(dec("1100.00")) {
		t.Errorf("ending: got %s, want 1100", m.EndingBalance)
	}
}

func TestZeroAmountExcludedFromAggregates(t *testing.T) {
	m := Compute([]models.Transaction{txn("2024-01-02", "0.00", "MEMO")}, dec("100"), nil, 0)
	if !m.TotalDeposits.IsZero() || !m.TotalWithdrawals.IsZero() {
		t.Errorf("zero-amount row leaked into aggregates: deposits=%s withdrawals=%s",
			m.TotalDeposits, m.TotalWithdrawals)
	}
}

// Single withdrawal of 1500 against a 1000 beginning balance on day 5 of a
// 10-day period: days 5-10 close at -500.
func TestDailyBalanceSimulation(t *testing.T) {
	period := &models.DateRange{Start: day("2024-01-01"), End: day("2024-01-10")}
	txns := []models.Transaction{txn("2024-01-05", "-1500.00", "LOAN PAYOFF")}

	m := Compute(txns, dec("1000.00"), period, 0)

	if m.NegativeBalanceDays != 6 {
		t.Errorf("negative balance days: got %d, want 6", m.NegativeBalanceDays)
	}
	// (4*1000 + 6*(-500)) / 10 = 100
	if !m.AvgDailyBalance.Equal(dec("100")) {
		t.Errorf("avg daily balance: got %s, want 100", m.AvgDailyBalance)
	}
}

func TestAvgDailyDeposit(t *testing.T) {
	period := &models.DateRange{Start: day("2024-03-01"), End: day("2024-03-30")}
	txns := []models.Transaction{
		txn("2024-03-05", "1500.00", "DEPOSIT"),
		txn("2024-03-20", "1500.00", "DEPOSIT B"),
	}

	m := Compute(txns, dec("0"), period, 0)

	if !m.AvgDailyDeposit.Equal(dec("100")) {
		t.Errorf("avg daily deposit: got %s, want 100", m.AvgDailyDeposit)
	}
}

func TestPeriodFallsBackToTransactionSpan(t *testing.T) {
	txns := []models.Transaction{
		txn("2024-01-01", "100.00", "A"),
		txn("2024-01-10", "100.00", "B"),
	}

	m := Compute(txns, dec("0"), nil, 0)

	// 10-day inferred span, 200 in deposits.
	if !m.AvgDailyDeposit.Equal(dec("20")) {
		t.Errorf("avg daily deposit: got %s, want 20", m.AvgDailyDeposit)
	}
}

func TestNSFCount(t *testing.T) {
	tests := []struct {
		desc     string
		expected int
	}{
		{"NSF RETURNED ITEM FEE", 1},
		{"nsf fee", 1},
		{"OVERDRAFT FEE", 1},
		{"UNPAID ITEM CHARGE", 1},
		{"PAYROLL DEPOSIT", 0},
		{"TRANSFER TO SAVINGS", 0},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			m := Compute([]models.Transaction{txn("2024-01-02", "-35.00", tt.desc)}, dec("0"), nil, 0)
			if m.NSFCount != tt.expected {
				t.Errorf("nsf count for %q: got %d, want %d", tt.desc, m.NSFCount, tt.expected)
			}
		})
	}
}

func TestZeroTransactions(t *testing.T) {
	begin := dec("750.00")
	m := Compute(nil, begin, nil, 0)

	if !m.AvgDailyBalance.Equal(begin) {
		t.Errorf("avg daily balance: got %s, want %s", m.AvgDailyBalance, begin)
	}
	if !m.EndingBalance.Equal(begin) {
		t.Errorf("ending balance: got %s, want %s", m.EndingBalance, begin)
	}
	if m.NSFCount != 0 || m.NegativeBalanceDays != 0 {
		t.Errorf("counts must be zero, got nsf=%d negative=%d", m.NSFCount, m.NegativeBalanceDays)
	}
	if m.MonthsOfStatements != 1 {
		t.Errorf("months: got %d, want 1", m.MonthsOfStatements)
	}
}

func TestMonthsEstimate(t *testing.T) {
	tests := []struct {
		name   string
		start  string
		end    string
		months int
	}{
		{"one month", "2024-03-01", "2024-03-30", 1},
		{"two months", "2024-01-01", "2024-02-29", 2},
		{"short span floors at one", "2024-03-01", "2024-03-05", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period := &models.DateRange{Start: day(tt.start), End: day(tt.end)}
			m := Compute([]models.Transaction{txn(tt.start, "10.00", "A")}, dec("0"), period, 0)
			if m.MonthsOfStatements != tt.months {
				t.Errorf("months: got %d, want %d", m.MonthsOfStatements, tt.months)
			}
		})
	}
}

func TestMonthsOverrideFromMerge(t *testing.T) {
	period := &models.DateRange{Start: day("2024-01-01"), End: day("2024-01-31")}
	m := Compute([]models.Transaction{txn("2024-01-05", "10.00", "A")}, dec("0"), period, 4)
	if m.MonthsOfStatements != 4 {
		t.Errorf("months override: got %d, want 4", m.MonthsOfStatements)
	}
}
