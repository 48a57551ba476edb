package normalize

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string // YYYY-MM-DD
		wantErr  bool
	}{
		{"2024-03-15", "2024-03-15", false},
		{"15/03/2024", "2024-03-15", false},
		{"1/3/2024", "2024-03-01", false},
		{"15/03/24", "2024-03-15", false},
		{"15-Mar-2024", "2024-03-15", false},
		{"15 Mar 2024", "2024-03-15", false},
		{"", "", true},
		{"not a date", "", true},
		{"2024/03/15", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Format("2006-01-02") != tt.expected {
				t.Errorf("got %s, want %s", got.Format("2006-01-02"), tt.expected)
			}
			if loc := got.Location(); loc != time.UTC {
				t.Errorf("expected UTC date, got location %v", loc)
			}
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"25.99", "25.99", false},
		{"1,234.56", "1234.56", false},
		{"-500.00", "-500", false},
		{"$1,234,567.89", "1234567.89", false},
		{"£25.99", "25.99", false},
		{"(500.00)", "-500", false},
		{" 25.99 ", "25.99", false},
		{"0.00", "0", false},
		{"", "", true},
		{"abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.expected {
				t.Errorf("got %s, want %s", got.String(), tt.expected)
			}
		})
	}
}

func TestTokenNormalizer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips leading ACH token",
			input:    "ACH ABC CAPITAL FUNDING",
			expected: "ABC CAPITAL FUNDING",
		},
		{
			name:     "strips trailing payment token",
			input:    "ABC CAPITAL PMT",
			expected: "ABC CAPITAL",
		},
		{
			name:     "strips stacked leading tokens",
			input:    "ACH DEBIT FORWARD FINANCING LLC",
			expected: "FORWARD FINANCING LLC",
		},
		{
			name:     "keeps only first three tokens",
			input:    "ONDECK CAPITAL DAILY REMITTANCE 0042",
			expected: "ONDECK CAPITAL DAILY",
		},
		{
			name:     "uppercases",
			input:    "OnDeck Capital",
			expected: "ONDECK CAPITAL",
		},
		{
			name:     "empty description",
			input:    "",
			expected: "",
		},
		{
			name:     "only role tokens leaves nothing",
			input:    "ACH PAYMENT",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultCounterparty.Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q): got %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFlagNearDuplicates(t *testing.T) {
	names := []string{
		"ONDECK CAPITAL",
		"0NDECK CAPITAL", // OCR zero for O
		"ONDECK CAPITAL", // repeat should not flag against itself
		"PAYROLL SERVICES",
	}

	flagged := FlagNearDuplicates(names)
	if len(flagged) != 1 {
		t.Fatalf("expected 1 near-duplicate pair, got %d: %v", len(flagged), flagged)
	}
	if flagged[0].Distance != 1 {
		t.Errorf("expected distance 1, got %d", flagged[0].Distance)
	}
	if flagged[0].A != "0NDECK CAPITAL" || flagged[0].B != "ONDECK CAPITAL" {
		t.Errorf("unexpected pair: %+v", flagged[0])
	}
}

func TestFlagNearDuplicatesDistinctNames(t *testing.T) {
	flagged := FlagNearDuplicates([]string{"ABC CAPITAL", "XYZ LEASING"})
	if len(flagged) != 0 {
		t.Errorf("expected no flags for distinct names, got %v", flagged)
	}
}

func TestKindFromText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"DEPOSIT", "deposit"},
		{"credit", "deposit"},
		{"WITHDRAWAL", "withdrawal"},
		{"ACH Debit", "withdrawal"},
		{"CHECK", "check"},
		{"", "other"},
		{"FEE", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := string(KindFromText(tt.input)); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
