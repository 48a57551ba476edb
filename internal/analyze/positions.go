package analyze

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/normalize"
)

// Detection thresholds. A pattern cannot be established from fewer than
// three data points, and only the trailing window matters: an obligation
// paid off months ago is not a current position.
const (
	minOccurrences     = 3
	trailingWindowDays = 90
	confidenceFloor    = 0.6
)

// Counterparty vocabulary suggesting a cash-advance lender or ACH debit
// facility. Non-exhaustive; matched against the normalized name.
var lenderKeywords = []string{
	"CAPITAL",
	"FUNDING",
	"ADVANCE",
	"MCA",
	"MERCHANT",
	"ONDECK",
	"KABBAGE",
	"RAPID FIN",
	"FORWARD FIN",
	"ACH DEBIT",
}

// ScoreInputs are the observed features of one recurring-withdrawal cluster.
type ScoreInputs struct {
	ConsistentAmount   bool
	ConsistentInterval bool
	WeekdayDaily       bool
	KeywordMatch       bool
	Occurrences        int
}

// Scorer converts cluster features into a [0,1] confidence. It is a named,
// swappable function so the ad hoc weights can later give way to a
// calibrated classifier without changing the pipeline shape.
type Scorer func(ScoreInputs) float64

// AdditiveScore is the default scorer: fixed additive weights, capped at 1.
func AdditiveScore(in ScoreInputs) float64 {
	score := 0.0
	if in.ConsistentAmount {
		score += 0.3
	}
	if in.ConsistentInterval {
		score += 0.3
	}
	if in.WeekdayDaily {
		score += 0.2
	}
	if in.KeywordMatch {
		score += 0.2
	}
	if in.Occurrences >= 10 {
		score += 0.1
	}
	if in.Occurrences >= 20 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// PositionDetector clusters withdrawals by counterparty and classifies
// recurring patterns as existing daily/weekly/monthly obligations. Pure
// unsupervised pattern detection: it never claims certainty, only a bounded
// confidence, and silently omits clusters below threshold by design.
type PositionDetector struct {
	Counterparty normalize.CounterpartyNormalizer
	Score        Scorer
}

// NewPositionDetector returns a detector with the stock normalizer and
// additive scorer.
func NewPositionDetector() *PositionDetector {
	return &PositionDetector{
		Counterparty: normalize.DefaultCounterparty,
		Score:        AdditiveScore,
	}
}

// Detect finds recurring obligations in one transaction set (a single
// account's ledger, or the union across accounts for the applicant view).
func (d *PositionDetector) Detect(txns []models.Transaction) []models.Position {
	latest, ok := latestDate(txns)
	if !ok {
		return nil
	}
	cutoff := latest.AddDate(0, 0, -trailingWindowDays)

	groups := make(map[string][]models.Transaction)
	for _, t := range txns {
		if !t.IsWithdrawal() && t.Kind != models.KindWithdrawal && t.Kind != models.KindCheck {
			continue
		}
		if t.Amount.IsPositive() {
			continue
		}
		name := d.Counterparty.Normalize(t.Description)
		if name == "" {
			continue
		}
		groups[name] = append(groups[name], t)
	}

	var positions []models.Position
	for name, occurrences := range groups {
		if len(occurrences) < minOccurrences {
			continue
		}
		// Restrict to the trailing window relative to the newest
		// transaction in the whole data set.
		var windowed []models.Transaction
		for _, t := range occurrences {
			if !models.Day(t.Date).Before(cutoff) {
				windowed = append(windowed, t)
			}
		}
		if len(windowed) < minOccurrences {
			continue
		}

		if pos, ok := d.classify(name, windowed); ok {
			positions = append(positions, pos)
		}
	}

	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Confidence != positions[j].Confidence {
			return positions[i].Confidence > positions[j].Confidence
		}
		return positions[i].Counterparty < positions[j].Counterparty
	})
	return positions
}

func (d *PositionDetector) classify(name string, occurrences []models.Transaction) (models.Position, bool) {
	dates := make([]time.Time, len(occurrences))
	for i, t := range occurrences {
		dates[i] = models.Day(t.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	intervals := make([]float64, 0, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		intervals = append(intervals, float64(models.DaysBetween(dates[i-1], dates[i])))
	}
	meanInterval := mean(intervals)
	weekdayOnly := allWeekdays(dates)

	var freq models.Frequency
	switch {
	case meanInterval <= 2 && weekdayOnly:
		freq = models.FrequencyDaily
	case meanInterval >= 6 && meanInterval <= 8:
		freq = models.FrequencyWeekly
	case meanInterval >= 28 && meanInterval <= 32:
		freq = models.FrequencyMonthly
	default:
		// No stable frequency established.
		return models.Position{}, false
	}

	amounts := make([]float64, len(occurrences))
	amountSum := decimal.Zero
	for i, t := range occurrences {
		abs := t.Amount.Abs()
		amounts[i] = abs.InexactFloat64()
		amountSum = amountSum.Add(abs)
	}
	meanAmount := amountSum.Div(decimal.NewFromInt(int64(len(occurrences))))

	consistentAmount := stddev(amounts) < 0.10*mean(amounts)
	consistentInterval := stddev(intervals) < 3

	score := d.Score(ScoreInputs{
		ConsistentAmount:   consistentAmount,
		ConsistentInterval: consistentInterval,
		WeekdayDaily:       freq == models.FrequencyDaily && weekdayOnly,
		KeywordMatch:       matchesLenderKeyword(name),
		Occurrences:        len(occurrences),
	})
	if score <= confidenceFloor {
		return models.Position{}, false
	}

	return models.Position{
		Counterparty:  name,
		PaymentAmount: meanAmount,
		Frequency:     freq,
		// Rough proxy for remaining principal; no amortization schedule
		// is known.
		EstimatedBalance: meanAmount.Mul(decimal.NewFromInt(int64(len(occurrences)))),
		Confidence:       score,
		Occurrences:      len(occurrences),
	}, true
}

func matchesLenderKeyword(name string) bool {
	upper := strings.ToUpper(name)
	for _, kw := range lenderKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func latestDate(txns []models.Transaction) (time.Time, bool) {
	if len(txns) == 0 {
		return time.Time{}, false
	}
	latest := models.Day(txns[0].Date)
	for _, t := range txns[1:] {
		if d := models.Day(t.Date); d.After(latest) {
			latest = d
		}
	}
	return latest, true
}

func allWeekdays(dates []time.Time) bool {
	for _, d := range dates {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}
	return true
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	variance := 0.0
	for _, x := range xs {
		variance += (x - m) * (x - m)
	}
	return math.Sqrt(variance / float64(len(xs)))
}
