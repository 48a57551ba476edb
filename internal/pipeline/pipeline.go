// Package pipeline orchestrates one applicant's reconciliation: parallel
// per-account merging, metrics for each merged account, then cross-account
// analysis once every account's ledger is complete. The engine underneath
// is pure and side-effect-free; this layer owns concurrency and logging.
package pipeline

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/insightdelivered/statement-analyzer/internal/analyze"
	"github.com/insightdelivered/statement-analyzer/internal/merge"
	"github.com/insightdelivered/statement-analyzer/internal/metrics"
	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/normalize"
)

// Result is the full output of one analysis run for one applicant.
type Result struct {
	Accounts []models.Account `json:"accounts"`
	// Transfers across all account pairs; each is also attached to its
	// source account. Advisory only, never subtracted from totals.
	Transfers []models.Transfer `json:"transfers"`
	// Positions detected over the union of all accounts' ledgers.
	Positions []models.Position `json:"positions"`
	// NearDuplicates flags counterparty groups that may be the same entity
	// split by OCR noise, for human review.
	NearDuplicates []normalize.NearDuplicate `json:"nearDuplicates,omitempty"`
}

// Pipeline wires the engine stages together.
type Pipeline struct {
	log       *logrus.Logger
	positions *analyze.PositionDetector
}

func New(log *logrus.Logger) *Pipeline {
	return &Pipeline{
		log:       log,
		positions: analyze.NewPositionDetector(),
	}
}

// Analyze runs merge, metrics, and cross-account analysis for one
// applicant's statements. Each account-number group merges independently in
// its own goroutine; the cross-account detectors wait for all of them,
// since transfer detection needs every account's ledger simultaneously.
func (p *Pipeline) Analyze(statements []models.Statement) *Result {
	groups := merge.GroupStatements(statements)

	accounts := make([]models.Account, len(groups))
	var wg sync.WaitGroup
	for i, g := range groups {
		wg.Add(1)
		go func(i int, g merge.Group) {
			defer wg.Done()
			acct := merge.Build(g)
			acct.Metrics = metrics.Compute(
				acct.Transactions, acct.BeginningBalance, acct.Period, acct.MonthsOfStatements)
			accounts[i] = acct
		}(i, g)
	}
	wg.Wait()

	// Deterministic output order regardless of goroutine scheduling.
	sort.SliceStable(accounts, func(i, j int) bool {
		if accounts[i].AccountNumberSuffix != accounts[j].AccountNumberSuffix {
			return accounts[i].AccountNumberSuffix < accounts[j].AccountNumberSuffix
		}
		return accounts[i].ID < accounts[j].ID
	})

	for _, acct := range accounts {
		if acct.Unreconciled {
			p.log.WithFields(logrus.Fields{
				"account_id": acct.ID,
				"source":     sourceFiles(acct),
			}).Warn("statement has no account number; reported as standalone unreconciled account")
		}
	}

	transfers := analyze.DetectTransfers(accounts)
	analyze.AttachTransfers(accounts, transfers)

	var union []models.Transaction
	for _, acct := range accounts {
		union = append(union, acct.Transactions...)
	}
	positions := p.positions.Detect(union)

	nearDupes := normalize.FlagNearDuplicates(counterpartyNames(p.positions, union))

	p.log.WithFields(logrus.Fields{
		"statements": len(statements),
		"accounts":   len(accounts),
		"transfers":  len(transfers),
		"positions":  len(positions),
	}).Info("analysis complete")

	return &Result{
		Accounts:       accounts,
		Transfers:      transfers,
		Positions:      positions,
		NearDuplicates: nearDupes,
	}
}

func counterpartyNames(d *analyze.PositionDetector, txns []models.Transaction) []string {
	names := make([]string, 0, len(txns))
	for _, t := range txns {
		if t.IsWithdrawal() {
			names = append(names, d.Counterparty.Normalize(t.Description))
		}
	}
	return names
}

func sourceFiles(acct models.Account) []string {
	files := make([]string, 0, len(acct.Statements))
	for _, st := range acct.Statements {
		files = append(files, st.SourceFile)
	}
	return files
}
