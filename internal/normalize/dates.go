package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Date layouts accepted from the upstream extractor. Its locale handling is
// inconsistent, so callers must not assume one fixed input format.
var dateLayouts = []string{
	"2006-01-02", // ISO
	"2/1/2006",   // day-first slash, 4-digit year
	"2/1/06",     // day-first slash, 2-digit year
	"2-Jan-2006",
	"2 Jan 2006",
	"2 Jan 06",
}

// ParseDate parses an extractor date string into a timezone-free calendar
// date (midnight UTC).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

// ParseAmount converts an extractor amount string like "1,234.56" or
// "-£1,234.56" to a decimal. OCR output often carries currency symbols,
// thousands separators, and stray whitespace.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "£", "")
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	// Parenthesized amounts are negatives: "(500.00)" -> "-500.00".
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = "-" + s[1:len(s)-1]
	}

	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount %q: %w", s, err)
	}
	return d, nil
}

// KindFromText maps the extractor's free-text transaction type to a coarse
// classifier. The classifier is advisory; amount sign stays authoritative.
func KindFromText(s string) models.TransactionKind {
	t := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.Contains(t, "CHECK") || strings.Contains(t, "CHEQUE"):
		return models.KindCheck
	case strings.Contains(t, "DEPOSIT") || strings.Contains(t, "CREDIT"):
		return models.KindDeposit
	case strings.Contains(t, "WITHDRAW") || strings.Contains(t, "DEBIT"):
		return models.KindWithdrawal
	default:
		return models.KindOther
	}
}
