package normalize

import "strings"

// CounterpartyNormalizer reduces a free-text transaction description to a
// grouping key for one counterparty. Implementations are heuristics, not
// entity resolution: distinct counterparties sharing a name prefix can
// collide, and inconsistent OCR punctuation can split one counterparty in
// two. The interface exists so the default token heuristic can be swapped
// for fuzzy/edit-distance matching without touching detection logic.
type CounterpartyNormalizer interface {
	Normalize(description string) string
}

// TokenNormalizer is the default CounterpartyNormalizer: uppercase, strip
// leading transactional-role tokens and trailing payment tokens, then keep
// the first three whitespace-delimited tokens of what remains.
//
// The token lists are not exhaustive; they are exported data so callers can
// extend them.
type TokenNormalizer struct {
	LeadingTokens  []string
	TrailingTokens []string
}

// DefaultCounterparty is the stock token heuristic.
var DefaultCounterparty = &TokenNormalizer{
	LeadingTokens:  []string{"ACH", "DEBIT", "WITHDRAWAL", "PAYMENT", "TRANSFER"},
	TrailingTokens: []string{"PAYMENT", "PMT", "PYMT", "WITHDRAW", "WD"},
}

func (n *TokenNormalizer) Normalize(description string) string {
	tokens := strings.Fields(strings.ToUpper(description))

	for len(tokens) > 0 && containsToken(n.LeadingTokens, tokens[0]) {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && containsToken(n.TrailingTokens, tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}

	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	return strings.Join(tokens, " ")
}

func containsToken(set []string, token string) bool {
	for _, s := range set {
		if s == token {
			return true
		}
	}
	return false
}
