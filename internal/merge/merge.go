// Package merge reconciles multiple uploaded statements into per-account
// ledgers. Statements sharing the last four digits of an account number are
// treated as the same physical account; their transactions are concatenated,
// deduplicated, and sorted into one ledger.
package merge

import (
	"sort"

	"github.com/google/uuid"

	"github.com/insightdelivered/statement-analyzer/internal/models"
)

// Group is one merge unit: the statements that will form a single Account.
// Suffix is "" for an unreconciled singleton.
type Group struct {
	Suffix     string
	Statements []models.Statement
}

// GroupStatements partitions statements by account-number suffix. A
// statement with no usable account number forms its own singleton group:
// an unknown account number is a zero-confidence merge key, so merging on
// it would be unsound.
func GroupStatements(statements []models.Statement) []Group {
	bySuffix := make(map[string][]models.Statement)
	var order []string
	var singletons []Group

	for _, st := range statements {
		suffix := st.AccountSuffix()
		if suffix == "" {
			singletons = append(singletons, Group{Statements: []models.Statement{st}})
			continue
		}
		if _, ok := bySuffix[suffix]; !ok {
			order = append(order, suffix)
		}
		bySuffix[suffix] = append(bySuffix[suffix], st)
	}

	sort.Strings(order)
	groups := make([]Group, 0, len(order)+len(singletons))
	for _, suffix := range order {
		groups = append(groups, Group{Suffix: suffix, Statements: bySuffix[suffix]})
	}
	return append(groups, singletons...)
}

// Build merges one group into an Account. The earliest-dated statement
// supplies the beginning balance and display identity; transactions are
// deduplicated under (date, amount, description) and sorted
// chronologically. Totals are recomputed downstream from the deduplicated
// set, never summed across statements, since overlapping periods would
// double-count.
func Build(g Group) models.Account {
	statements := make([]models.Statement, len(g.Statements))
	copy(statements, g.Statements)
	sortByEarliestDate(statements)

	acct := models.Account{
		ID:                  uuid.NewString(),
		AccountNumberSuffix: g.Suffix,
		Unreconciled:        g.Suffix == "",
		Statements:          statements,
		Transactions:        []models.Transaction{},
	}

	if len(statements) > 0 {
		first := statements[0]
		acct.BeginningBalance = first.BeginningBalance
		acct.BankName = first.BankName
		acct.AccountName = first.AccountName
	}

	for _, st := range statements {
		acct.Transactions = append(acct.Transactions, st.Transactions...)
		acct.MonthsOfStatements += st.PeriodMonths()
	}
	acct.Transactions = Deduplicate(acct.Transactions)
	sortChronological(acct.Transactions)
	acct.Period = declaredPeriod(statements)

	return acct
}

// Merge reconciles a full set of one applicant's statements into accounts,
// one per suffix group plus one per unreconciled statement.
func Merge(statements []models.Statement) []models.Account {
	groups := GroupStatements(statements)
	accounts := make([]models.Account, 0, len(groups))
	for _, g := range groups {
		accounts = append(accounts, Build(g))
	}
	return accounts
}

// Deduplicate removes repeats of the (date, amount, description) identity,
// keeping first occurrence. Duplicates are removed, never summed.
func Deduplicate(txns []models.Transaction) []models.Transaction {
	seen := make(map[string]bool, len(txns))
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		k := t.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}

func sortChronological(txns []models.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})
}

func sortByEarliestDate(statements []models.Statement) {
	sort.SliceStable(statements, func(i, j int) bool {
		di, iok := statements[i].EarliestDate()
		dj, jok := statements[j].EarliestDate()
		if !iok || !jok {
			// Undated statements sort last.
			return iok
		}
		return di.Before(dj)
	})
}

// declaredPeriod unions the statements' declared periods, falling back to
// per-statement transaction spans.
func declaredPeriod(statements []models.Statement) *models.DateRange {
	var period *models.DateRange
	for _, st := range statements {
		p := st.Period()
		if p == nil {
			continue
		}
		if period == nil {
			r := *p
			period = &r
			continue
		}
		if p.Start.Before(period.Start) {
			period.Start = p.Start
		}
		if p.End.After(period.End) {
			period.End = p.End
		}
	}
	return period
}
